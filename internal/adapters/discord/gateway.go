package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"bugbot/internal/domain"
	"bugbot/internal/logging"
	"bugbot/internal/ports"
)

// Gateway implements ports.ChatGateway on top of a discordgo session
type Gateway struct {
	session     *discordgo.Session
	guildID     string
	mutedRoleID string
}

// Verify interface compliance at compile time
var _ ports.ChatGateway = (*Gateway)(nil)

// NewGateway creates a Gateway for an open discordgo session
func NewGateway(session *discordgo.Session, guildID, mutedRoleID string) *Gateway {
	return &Gateway{
		session:     session,
		guildID:     guildID,
		mutedRoleID: mutedRoleID,
	}
}

// SendMessage posts a message and returns its ID
func (g *Gateway) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	msg, err := g.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// SendTransient posts a message and deletes it after ttl
func (g *Gateway) SendTransient(ctx context.Context, channelID, content string, ttl time.Duration) error {
	msg, err := g.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send transient message: %w", err)
	}

	time.AfterFunc(ttl, func() {
		if err := g.session.ChannelMessageDelete(channelID, msg.ID); err != nil {
			logging.Logger.Debug("Failed to delete transient message", "message", msg.ID, "error", err)
		}
	})
	return nil
}

// DeleteMessage removes a message; an already-deleted message is not an error
func (g *Gateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := g.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Response != nil && restErr.Response.StatusCode == 404 {
			return nil
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// AddReaction adds the bot's reaction to a message
func (g *Gateway) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := g.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add reaction: %w", err)
	}
	return nil
}

// OpenDM opens (or reuses) a private channel to the user
func (g *Gateway) OpenDM(ctx context.Context, userID string) (string, error) {
	channel, err := g.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		logging.Logger.Debug("Cannot open DM channel", "user", userID, "error", err)
		return "", domain.ErrDMUnavailable
	}
	return channel.ID, nil
}

// IsEligible reports whether the user is a guild member without the muted
// role. Lookup failures count as ineligible; a request from someone the
// guild does not know is silently dropped.
func (g *Gateway) IsEligible(ctx context.Context, userID string) bool {
	member, err := g.session.GuildMember(g.guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		logging.Logger.Debug("Member lookup failed", "user", userID, "error", err)
		return false
	}
	if member.User != nil && member.User.Bot {
		return false
	}
	for _, role := range member.Roles {
		if role == g.mutedRoleID {
			return false
		}
	}
	return true
}
