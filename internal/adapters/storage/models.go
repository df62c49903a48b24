package storage

import "time"

// ReportModel is the GORM model for persisted bug reports
type ReportModel struct {
	ID                  int64  `gorm:"primaryKey;autoIncrement"`
	Reporter            string `gorm:"not null;index:idx_reporter"`
	MessageID           string `gorm:"default:''"`
	AttachmentMessageID string `gorm:"default:''"`
	Platform            string `gorm:"not null;check:platform IN ('Android','iOS')"`
	PlatformVersion     string `gorm:"not null;size:20"`
	DeviceInfo          string `gorm:"not null;size:100"`
	Branch              string `gorm:"not null;check:branch IN ('Stable','Beta')"`
	AppVersion          string `gorm:"not null;size:20"`
	AppBuild            string `gorm:"not null;size:20"`
	Title               string `gorm:"not null;size:100"`
	Actual              string `gorm:"not null;size:400"`
	Steps               string `gorm:"not null;size:800"`
	Expected            string `gorm:"not null;size:200"`
	Additional          string `gorm:"not null;default:''"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName specifies the table name for GORM
func (ReportModel) TableName() string { return "bug_reports" }

// AttachmentModel is the GORM model for report attachments
type AttachmentModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ReportID  int64  `gorm:"not null;index:idx_attachment_report"`
	URL       string `gorm:"not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (AttachmentModel) TableName() string { return "attachments" }

// ReproModel is the GORM model for reproduction confirmations
type ReproModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ReportID  int64  `gorm:"not null;index:idx_repro_report"`
	User      string `gorm:"not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (ReproModel) TableName() string { return "repros" }

// PromptMessageModel is the GORM model for persisted standing-prompt and
// shutdown-notice message pointers
type PromptMessageModel struct {
	Destination string `gorm:"primaryKey"`
	Kind        string `gorm:"primaryKey"`
	ChannelID   string `gorm:"not null"`
	MessageID   string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (PromptMessageModel) TableName() string { return "prompt_messages" }
