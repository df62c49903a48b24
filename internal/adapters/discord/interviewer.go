package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"bugbot/internal/domain"
	"bugbot/internal/lang"
	"bugbot/internal/logging"
	"bugbot/internal/ports"
)

// Interviewer implements ports.Interviewer with reaction-based choice
// questions and message-based text questions. Each Ask call registers a
// temporary gateway handler scoped to the question's message and user, so
// two sessions never see each other's answers.
type Interviewer struct {
	session        *discordgo.Session
	defaultTimeout time.Duration
}

// Verify interface compliance at compile time
var _ ports.Interviewer = (*Interviewer)(nil)

// NewInterviewer creates an Interviewer. defaultTimeout bounds waits that
// have no explicit window, like attachment collection.
func NewInterviewer(session *discordgo.Session, defaultTimeout time.Duration) *Interviewer {
	return &Interviewer{
		session:        session,
		defaultTimeout: defaultTimeout,
	}
}

// AskChoice posts the prompt with one reaction per option and resolves on
// the first qualifying reaction, invoking the selected option's handler
func (i *Interviewer) AskChoice(ctx context.Context, channelID, userID, prompt string, options []ports.ChoiceOption, timeout time.Duration) error {
	var b strings.Builder
	b.WriteString(prompt)
	for _, opt := range options {
		fmt.Fprintf(&b, "\n%s %s", opt.Emoji, opt.Label)
	}

	msg, err := i.session.ChannelMessageSend(channelID, b.String(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post question: %w", err)
	}

	for _, opt := range options {
		if err := i.session.MessageReactionAdd(channelID, msg.ID, opt.Emoji, discordgo.WithContext(ctx)); err != nil {
			logging.Logger.Warn("Failed to add option reaction", "emoji", opt.Emoji, "error", err)
		}
	}

	picks := make(chan int, 1)
	remove := i.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageID != msg.ID || r.UserID != userID {
			return
		}
		for idx, opt := range options {
			if r.Emoji.Name == opt.Emoji {
				select {
				case picks <- idx:
				default:
				}
				return
			}
		}
	})
	defer remove()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case idx := <-picks:
		if options[idx].Handler != nil {
			return options[idx].Handler(ctx)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return domain.ErrTimeout
	}
}

// AskText posts the prompt and waits for a message from the user that
// passes the validator. Rejections send the validator's message and re-arm
// the wait with a fresh timeout.
func (i *Interviewer) AskText(ctx context.Context, channelID, userID, prompt string, validator ports.Validator, timeout time.Duration) (string, error) {
	if _, err := i.session.ChannelMessageSend(channelID, prompt, discordgo.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("failed to post question: %w", err)
	}

	answers := make(chan string, 1)
	remove := i.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != channelID || m.Author == nil || m.Author.ID != userID {
			return
		}
		select {
		case answers <- m.Content:
		default:
		}
	})
	defer remove()

	for {
		timer := time.NewTimer(timeout)
		select {
		case text := <-answers:
			timer.Stop()
			if validator != nil {
				if verr := validator(text); verr != nil {
					if _, err := i.session.ChannelMessageSend(channelID, verr.Error(), discordgo.WithContext(ctx)); err != nil {
						return "", fmt.Errorf("failed to post rejection: %w", err)
					}
					continue
				}
			}
			return text, nil
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
			return "", domain.ErrTimeout
		}
	}
}

// AskAttachments collects attachment URLs from the user's messages until
// they react done on the collection prompt. Each received message re-arms
// the timeout.
func (i *Interviewer) AskAttachments(ctx context.Context, channelID, userID string) ([]string, error) {
	prompt := fmt.Sprintf(lang.AttachmentsCollectFmt, lang.DoneReactionEmoji)
	msg, err := i.session.ChannelMessageSend(channelID, prompt, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to post question: %w", err)
	}
	if err := i.session.MessageReactionAdd(channelID, msg.ID, lang.DoneReactionEmoji, discordgo.WithContext(ctx)); err != nil {
		logging.Logger.Warn("Failed to add done reaction", "error", err)
	}

	incoming := make(chan []string, 8)
	done := make(chan struct{}, 1)

	removeMsg := i.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != channelID || m.Author == nil || m.Author.ID != userID {
			return
		}
		urls := attachmentURLs(m.Message)
		if len(urls) == 0 {
			return
		}
		select {
		case incoming <- urls:
		default:
		}
	})
	defer removeMsg()

	removeReact := i.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageID != msg.ID || r.UserID != userID || r.Emoji.Name != lang.DoneReactionEmoji {
			return
		}
		select {
		case done <- struct{}{}:
		default:
		}
	})
	defer removeReact()

	var collected []string
	for {
		timer := time.NewTimer(i.defaultTimeout)
		select {
		case urls := <-incoming:
			timer.Stop()
			collected = append(collected, urls...)
		case <-done:
			timer.Stop()
			return collected, nil
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
			return nil, domain.ErrTimeout
		}
	}
}

// attachmentURLs extracts uploaded attachment URLs and link-looking content
// from a message
func attachmentURLs(m *discordgo.Message) []string {
	var urls []string
	for _, a := range m.Attachments {
		if a != nil && a.URL != "" {
			urls = append(urls, a.URL)
		}
	}
	for _, field := range strings.Fields(m.Content) {
		if strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://") {
			urls = append(urls, field)
		}
	}
	return urls
}
