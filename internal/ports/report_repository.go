package ports

import (
	"context"

	"bugbot/internal/domain"
)

// ReportWriter persists finished reports
type ReportWriter interface {
	Create(ctx context.Context, draft *domain.DraftReport) (*domain.Report, error)
	Attach(ctx context.Context, reportID int64, url string) error
	MarkDelivered(ctx context.Context, reportID int64, messageID, attachmentMessageID string) error
}

// ReportReader reads persisted reports
type ReportReader interface {
	Get(ctx context.Context, id int64) (*domain.Report, error)
	List(ctx context.Context, limit int) ([]domain.Report, error)
}

// PromptStore persists standing-prompt message pointers across restarts
type PromptStore interface {
	GetPrompt(ctx context.Context, destination string, kind domain.PromptKind) (*domain.PromptMessage, error)
	SetPrompt(ctx context.Context, prompt domain.PromptMessage) error
	ClearPrompt(ctx context.Context, destination string, kind domain.PromptKind) error
}

// ReportRepository is the composite interface
type ReportRepository interface {
	ReportReader
	ReportWriter
	PromptStore
	Close() error
}
