package storage

import (
	"bugbot/internal/domain"
)

// reportModelToDomain converts a ReportModel (GORM) to domain.Report
func reportModelToDomain(m ReportModel, attachments []AttachmentModel) domain.Report {
	report := domain.Report{
		ID:                  m.ID,
		Reporter:            m.Reporter,
		Platform:            domain.Platform(m.Platform),
		PlatformVersion:     m.PlatformVersion,
		DeviceInfo:          m.DeviceInfo,
		Branch:              domain.Branch(m.Branch),
		AppVersion:          m.AppVersion,
		AppBuild:            m.AppBuild,
		Title:               m.Title,
		Actual:              m.Actual,
		Steps:               m.Steps,
		Expected:            m.Expected,
		Additional:          m.Additional,
		MessageID:           m.MessageID,
		AttachmentMessageID: m.AttachmentMessageID,
		CreatedAt:           m.CreatedAt,
	}
	for _, a := range attachments {
		report.Attachments = append(report.Attachments, domain.Attachment{
			ID:       a.ID,
			ReportID: a.ReportID,
			URL:      a.URL,
		})
	}
	return report
}

// draftToReportModel converts a domain.DraftReport to ReportModel (GORM)
func draftToReportModel(d *domain.DraftReport) ReportModel {
	return ReportModel{
		Reporter:        d.Reporter,
		Platform:        string(d.Platform),
		PlatformVersion: d.PlatformVersion,
		DeviceInfo:      d.DeviceInfo,
		Branch:          string(d.Branch),
		AppVersion:      d.AppVersion,
		AppBuild:        d.AppBuild,
		Title:           d.Title,
		Actual:          d.Actual,
		Steps:           d.Steps,
		Expected:        d.Expected,
		Additional:      d.Additional,
	}
}

// promptModelToDomain converts a PromptMessageModel to domain.PromptMessage
func promptModelToDomain(m PromptMessageModel) domain.PromptMessage {
	return domain.PromptMessage{
		Destination: m.Destination,
		Kind:        domain.PromptKind(m.Kind),
		ChannelID:   m.ChannelID,
		MessageID:   m.MessageID,
	}
}
