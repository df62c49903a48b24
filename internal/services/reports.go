package services

import (
	"context"
	"fmt"
	"strings"

	"bugbot/internal/domain"
	"bugbot/internal/lang"
	"bugbot/internal/logging"
	"bugbot/internal/ports"
)

// promptRefresher reposts the standing prompt after a report is delivered
type promptRefresher interface {
	Refresh(ctx context.Context, destination string) error
}

// ReportService persists a finished draft and posts it to the destination
// channel matching the draft's platform/branch combination
type ReportService struct {
	repo     ports.ReportRepository
	gateway  ports.ChatGateway
	prompts  promptRefresher
	channels map[string]string
}

// NewReportService creates a ReportService
func NewReportService(
	repo ports.ReportRepository,
	gateway ports.ChatGateway,
	prompts promptRefresher,
	channels map[string]string,
) *ReportService {
	return &ReportService{
		repo:     repo,
		gateway:  gateway,
		prompts:  prompts,
		channels: channels,
	}
}

// Deliver persists the draft with its attachments, posts the report to its
// destination channel, records the delivered message IDs, confirms to the
// reporter, and refreshes the standing prompt. The report is created exactly
// once; the draft must not be mutated afterwards.
func (s *ReportService) Deliver(ctx context.Context, draft *domain.DraftReport, dmChannelID string) (*domain.Report, error) {
	report, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	for _, url := range draft.AttachmentURLs {
		if err := s.repo.Attach(ctx, report.ID, url); err != nil {
			return nil, fmt.Errorf("failed to persist attachment: %w", err)
		}
	}

	destination := draft.Destination()
	channelID, ok := s.channels[destination]
	if !ok {
		return nil, fmt.Errorf("no channel configured for destination %q", destination)
	}

	content := fmt.Sprintf(lang.ReportHeaderFmt, report.ID, lang.Mention(draft.Reporter)) + "\n" + draft.Preview()
	messageID, err := s.gateway.SendMessage(ctx, channelID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to post report: %w", err)
	}

	attachmentMessageID := ""
	if len(draft.AttachmentURLs) > 0 {
		format := lang.AttachmentInfoFmt
		if len(draft.AttachmentURLs) > 1 {
			format = lang.AttachmentInfoPluralFmt
		}
		attachmentMessageID, err = s.gateway.SendMessage(ctx, channelID,
			fmt.Sprintf(format, report.ID, strings.Join(draft.AttachmentURLs, "\n")))
		if err != nil {
			return nil, fmt.Errorf("failed to post attachments: %w", err)
		}
	}

	if err := s.repo.MarkDelivered(ctx, report.ID, messageID, attachmentMessageID); err != nil {
		return nil, fmt.Errorf("failed to record delivery: %w", err)
	}
	report.MessageID = messageID
	report.AttachmentMessageID = attachmentMessageID

	if _, err := s.gateway.SendMessage(ctx, dmChannelID,
		fmt.Sprintf(lang.ReportConfirmationFmt, report.ID, channelID)); err != nil {
		logging.Logger.Warn("Failed to send report confirmation", "report", report.ID, "error", err)
	}

	if err := s.prompts.Refresh(ctx, destination); err != nil {
		logging.Logger.Warn("Failed to refresh standing prompt", "destination", destination, "error", err)
	}

	logging.Logger.Info("Bug report delivered",
		"report", report.ID,
		"reporter", draft.Reporter,
		"destination", destination,
		"attachments", len(draft.AttachmentURLs))

	return report, nil
}
