package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"bugbot/internal/logging"
)

// bugCommand is the explicit text entry point besides the standing prompt
const bugCommand = "!bug"

// SessionRequester is the controller surface the trigger invokes
type SessionRequester interface {
	Request(ctx context.Context, userID, triggerChannelID string) error
}

// promptIndex answers whether a message is a live standing prompt
type promptIndex interface {
	IsPromptMessage(messageID string) bool
}

// ReactionTrigger starts a report session when a user reacts on a standing
// "file a bug" prompt or types the bug command
type ReactionTrigger struct {
	session    *discordgo.Session
	prompts    promptIndex
	controller SessionRequester
}

// NewReactionTrigger creates a ReactionTrigger
func NewReactionTrigger(session *discordgo.Session, prompts promptIndex, controller SessionRequester) *ReactionTrigger {
	return &ReactionTrigger{
		session:    session,
		prompts:    prompts,
		controller: controller,
	}
}

// Register installs the gateway handlers
func (t *ReactionTrigger) Register() {
	t.session.AddHandler(t.onReactionAdd)
	t.session.AddHandler(t.onMessageCreate)
}

// onReactionAdd removes the reactor's reaction to keep the prompt pristine
// for the next user, then requests a session on their behalf
func (t *ReactionTrigger) onReactionAdd(s *discordgo.Session, e *discordgo.MessageReactionAdd) {
	if s.State.User != nil && e.UserID == s.State.User.ID {
		return
	}
	if !t.prompts.IsPromptMessage(e.MessageID) {
		return
	}

	if err := s.MessageReactionRemove(e.ChannelID, e.MessageID, e.Emoji.APIName(), e.UserID); err != nil {
		logging.Logger.Warn("Failed to remove trigger reaction", "user", e.UserID, "error", err)
	}

	if err := t.controller.Request(context.Background(), e.UserID, e.ChannelID); err != nil {
		logging.Logger.Error("Report request failed", "user", e.UserID, "error", err)
	}
}

// onMessageCreate handles the explicit bug command. When invoked in a guild
// channel the invoking message is deleted to not flood chat.
func (t *ReactionTrigger) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if strings.TrimSpace(m.Content) != bugCommand {
		return
	}

	if m.GuildID != "" {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			logging.Logger.Debug("Failed to delete command message", "message", m.ID, "error", err)
		}
	}

	if err := t.controller.Request(context.Background(), m.Author.ID, m.ChannelID); err != nil {
		logging.Logger.Error("Report request failed", "user", m.Author.ID, "error", err)
	}
}
