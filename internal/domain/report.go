package domain

import (
	"fmt"
	"strings"
	"time"

	"bugbot/internal/lang"
)

// Platform identifies the mobile platform a report is filed against
type Platform string

const (
	PlatformAndroid Platform = "Android"
	PlatformIOS     Platform = "iOS"
)

// Branch identifies the release branch a report is filed against
type Branch string

const (
	BranchStable Branch = "Stable"
	BranchBeta   Branch = "Beta"
)

// Field length caps enforced by the question pipeline
const (
	MaxVersionLength    = 20
	MaxDeviceInfoLength = 100
	MaxTitleLength      = 100
	MaxActualLength     = 400
	MaxStepsLength      = 800
	MaxExpectedLength   = 200
	MaxAdditionalLength = 500
)

// DraftReport accumulates answers for one interview session. It is passed by
// pointer through the pipeline steps and becomes immutable once handed to
// the report repository.
type DraftReport struct {
	Reporter        string // Discord user ID
	Platform        Platform
	PlatformVersion string
	DeviceInfo      string
	Branch          Branch
	AppVersion      string
	AppBuild        string
	Title           string
	Actual          string
	Steps           string
	Expected        string
	Additional      string
	AttachmentURLs  []string
}

// Destination returns the logical report-destination name for the draft,
// e.g. "android_beta". The channel map in settings is keyed by these names.
func (d *DraftReport) Destination() string {
	return strings.ToLower(fmt.Sprintf("%s_%s", d.Platform, d.Branch))
}

// Preview renders the draft as the human-readable summary shown before the
// final confirmation question.
func (d *DraftReport) Preview() string {
	var b strings.Builder
	field := func(name, value string) {
		fmt.Fprintf(&b, "**%s**: %s\n", name, value)
	}

	field(lang.FieldPlatform, fmt.Sprintf("%s %s", d.Platform, d.PlatformVersion))
	field(lang.FieldAppVersion, d.AppVersion)
	field(lang.FieldAppBuild, d.AppBuild)
	field(lang.FieldDeviceInfo, d.DeviceInfo)
	field(lang.FieldTitle, d.Title)
	field(lang.FieldActual, d.Actual)
	field(lang.FieldSteps, d.Steps)
	field(lang.FieldExpected, d.Expected)
	if d.Additional != "" {
		field(lang.FieldAdditionalInfo, d.Additional)
	}
	return b.String()
}

// Report is a persisted bug report (domain entity)
type Report struct {
	ID                  int64
	Reporter            string
	Platform            Platform
	PlatformVersion     string
	DeviceInfo          string
	Branch              Branch
	AppVersion          string
	AppBuild            string
	Title               string
	Actual              string
	Steps               string
	Expected            string
	Additional          string
	MessageID           string
	AttachmentMessageID string
	Attachments         []Attachment
	CreatedAt           time.Time
}

// Attachment is a link attached to a persisted report
type Attachment struct {
	ID       int64
	ReportID int64
	URL      string
}

// Repro records that a user confirmed they can reproduce a report
type Repro struct {
	ID       int64
	ReportID int64
	User     string
}

// PromptKind distinguishes the persisted standing-prompt message kinds
type PromptKind string

const (
	PromptBugInfo  PromptKind = "bug_info"
	PromptShutdown PromptKind = "shutdown"
)

// PromptMessage is a persisted pointer to a bot-owned message in a
// destination channel, used to clean up and refresh prompts across restarts
type PromptMessage struct {
	Destination string
	Kind        PromptKind
	ChannelID   string
	MessageID   string
}
