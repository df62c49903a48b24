package ports

import (
	"context"
	"time"
)

// ChatGateway is the messaging-transport surface the session engine needs.
// Implementations wrap the Discord session; fakes replace it in tests.
type ChatGateway interface {
	// SendMessage posts a message and returns its ID
	SendMessage(ctx context.Context, channelID, content string) (string, error)
	// SendTransient posts a message that the transport deletes after ttl
	SendTransient(ctx context.Context, channelID, content string, ttl time.Duration) error
	// DeleteMessage removes a message; unknown messages are not an error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// AddReaction adds the bot's reaction to a message
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	// OpenDM opens (or reuses) a private channel to the user and returns its
	// channel ID; fails with domain.ErrDMUnavailable when the user blocks DMs
	OpenDM(ctx context.Context, userID string) (string, error)
	// IsEligible reports whether the user is a guild member without the
	// muted role. Non-members and muted members are silently ignored.
	IsEligible(ctx context.Context, userID string) bool
}

// Diagnostics receives unexpected session failures after local cleanup
type Diagnostics interface {
	ReportError(ctx context.Context, component string, err error)
}
