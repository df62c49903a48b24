package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"bugbot/internal/domain"
	"bugbot/internal/lang"
	"bugbot/internal/logging"
	"bugbot/internal/ports"
)

// PromptService owns the standing "file a bug" prompt in each destination
// channel: deleting stale shutdown notices on startup, reposting the prompt,
// and remembering which message IDs are live prompts so the reaction trigger
// can recognize them.
type PromptService struct {
	gateway  ports.ChatGateway
	store    ports.PromptStore
	channels map[string]string

	mu             sync.Mutex
	promptMessages map[string]string // message ID -> destination name
}

// NewPromptService creates a PromptService
func NewPromptService(gateway ports.ChatGateway, store ports.PromptStore, channels map[string]string) *PromptService {
	return &PromptService{
		gateway:        gateway,
		store:          store,
		channels:       channels,
		promptMessages: make(map[string]string),
	}
}

// StartupCleanup removes any shutdown notice left by a previous run and
// posts a fresh prompt in every destination channel. Destinations are
// independent, so they are cleaned concurrently.
func (s *PromptService) StartupCleanup(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for destination := range s.channels {
		destination := destination
		g.Go(func() error {
			notice, err := s.store.GetPrompt(gctx, destination, domain.PromptShutdown)
			if err != nil {
				return fmt.Errorf("failed to load shutdown notice for %s: %w", destination, err)
			}
			if notice != nil {
				if err := s.gateway.DeleteMessage(gctx, notice.ChannelID, notice.MessageID); err != nil {
					logging.Logger.Warn("Failed to delete shutdown notice", "destination", destination, "error", err)
				}
				if err := s.store.ClearPrompt(gctx, destination, domain.PromptShutdown); err != nil {
					return fmt.Errorf("failed to clear shutdown notice for %s: %w", destination, err)
				}
			}

			return s.Refresh(gctx, destination)
		})
	}
	return g.Wait()
}

// Shutdown posts a going-down notice per destination and persists its
// message ID so the next startup can delete it
func (s *PromptService) Shutdown(ctx context.Context) {
	for destination, channelID := range s.channels {
		messageID, err := s.gateway.SendMessage(ctx, channelID, lang.ShutdownMessage)
		if err != nil {
			logging.Logger.Warn("Failed to post shutdown notice", "destination", destination, "error", err)
			continue
		}
		if err := s.store.SetPrompt(ctx, domain.PromptMessage{
			Destination: destination,
			Kind:        domain.PromptShutdown,
			ChannelID:   channelID,
			MessageID:   messageID,
		}); err != nil {
			logging.Logger.Error("Failed to persist shutdown notice", "destination", destination, "error", err)
		}
	}
}

// Refresh deletes the previous standing prompt in the destination channel,
// posts a new one with the bug reaction, and persists its message ID
func (s *PromptService) Refresh(ctx context.Context, destination string) error {
	channelID, ok := s.channels[destination]
	if !ok {
		return fmt.Errorf("no channel configured for destination %q", destination)
	}

	old, err := s.store.GetPrompt(ctx, destination, domain.PromptBugInfo)
	if err != nil {
		return fmt.Errorf("failed to load standing prompt for %s: %w", destination, err)
	}
	if old != nil {
		if err := s.gateway.DeleteMessage(ctx, old.ChannelID, old.MessageID); err != nil {
			logging.Logger.Warn("Failed to delete old prompt", "destination", destination, "error", err)
		}
		s.forget(old.MessageID)
	}

	messageID, err := s.gateway.SendMessage(ctx, channelID, fmt.Sprintf(lang.BugInfoFmt, lang.BugReactionEmoji))
	if err != nil {
		return fmt.Errorf("failed to post standing prompt for %s: %w", destination, err)
	}
	if err := s.gateway.AddReaction(ctx, channelID, messageID, lang.BugReactionEmoji); err != nil {
		logging.Logger.Warn("Failed to add prompt reaction", "destination", destination, "error", err)
	}

	if err := s.store.SetPrompt(ctx, domain.PromptMessage{
		Destination: destination,
		Kind:        domain.PromptBugInfo,
		ChannelID:   channelID,
		MessageID:   messageID,
	}); err != nil {
		return fmt.Errorf("failed to persist standing prompt for %s: %w", destination, err)
	}

	s.mu.Lock()
	s.promptMessages[messageID] = destination
	s.mu.Unlock()

	logging.Logger.Debug("Standing prompt refreshed", "destination", destination, "message", messageID)
	return nil
}

// IsPromptMessage reports whether a message ID is a live standing prompt
func (s *PromptService) IsPromptMessage(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.promptMessages[messageID]
	return ok
}

func (s *PromptService) forget(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.promptMessages, messageID)
}
