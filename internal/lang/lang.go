// Package lang holds every user-facing message template in one place so the
// wording can be reviewed and changed without touching session logic.
package lang

import "fmt"

// Entry / restart negotiation
const (
	StopSpammingFmt  = "%s you already have a report in progress, please check your DMs and answer the question there"
	StartOverFmt     = "%s you already have a bug report in progress, do you want to start over?"
	StartOverYes     = "Yes, discard my old report and start over"
	StartOverNo      = "No, keep answering the questions I already have"
	DMUnableFmt      = "%s I can't send you a DM, please enable DMs from server members and try again"
	ShutdownMessage  = "bot is shutting down, bug reporting will be unavailable until it returns"
	BugInfoFmt       = "Found a bug? React with %s to start a report!"
	BugReactionEmoji = "\U0001F41B" // bug
)

// Pipeline questions
const (
	QuestionReady           = "You are about to file a bug report. Ready to start?"
	ReadyYes                = "Press this reaction to answer YES and begin a report"
	ReadyNo                 = "Press this reaction to answer NO"
	AbortReport             = "No problem! If you do want to report a bug later, just start over"
	QuestionPlatform        = "What platform is the bug on?"
	QuestionPlatformVerFmt  = "What version of %s are you using?"
	QuestionDeviceInfoFmt   = "What device do you see the bug on (model and hardware)? (max %d characters)"
	QuestionBranch          = "Are you using the Live version or the Beta version of the app?"
	NoLiveAndroid           = "The Live version is not available on Android yet, so there is nothing to report. Aborting"
	QuestionAppVersionFmt   = "What version of the app are you using? %s"
	VersionHelpAndroid      = "(You can find the version in the settings menu)"
	VersionHelpIOS          = "(You can find the version under iOS settings, scroll down to the app entry)"
	QuestionAppBuild        = "What build of the app are you using? (shown next to the version number)"
	QuestionTitleFmt        = "Give your report a title (max %d characters)"
	QuestionActualFmt       = "What is actually happening? (max %d characters)"
	QuestionStepsFmt        = "What steps lead to the bug? (max %d characters)"
	QuestionExpectedFmt     = "What did you expect to happen instead? (max %d characters)"
	QuestionAttachments     = "Do you have any screenshots or videos of the bug?"
	AttachmentsCollectFmt   = "Send your screenshots or videos now, as uploads or links. React with %s on this message when you are done"
	DoneReactionEmoji       = "✅"
	AttachmentsYes          = "Yes, let me attach them"
	QuestionAdditional      = "Is there anything else you want to add to the report?"
	QuestionAdditionalFmt   = "What else should the report mention? (max %d characters)"
	AdditionalYes           = "Yes, there is more"
	SkipStep                = "No, skip this step"
	QuestionOKFmt           = "This is the report as it will be sent. Is everything correct? You have %s to review it"
	SendReport              = "Yes, send this report"
	Mistake                 = "No, I made a mistake, start over"
	ReportHeaderFmt         = "**Bug report #%d** filed by %s"
	ReportPreviewHeaderFmt  = "**Bug report preview** for %s"
	ReportConfirmationFmt   = "Report #%d delivered to <#%s>, thank you for reporting!"
	AttachmentInfoFmt       = "Attachment for report #%d:\n%s"
	AttachmentInfoPluralFmt = "Attachments for report #%d:\n%s"
)

// Validator rejections
const (
	LatestNotAllowed = "\"latest\" is not a version number, please check the settings screen for the actual version"
	NoNumbers        = "a version number should contain at least one digit"
	VersionTooLong   = "that does not look like a version number, versions are 20 characters at most"
	TextTooLongFmt   = "please use at most %d characters"
)

// Preview field labels
const (
	FieldPlatform       = "Platform"
	FieldAppVersion     = "App version"
	FieldAppBuild       = "App build"
	FieldDeviceInfo     = "Device info"
	FieldTitle          = "Title"
	FieldActual         = "What happens"
	FieldSteps          = "Steps to reproduce"
	FieldExpected       = "Expected behavior"
	FieldAdditionalInfo = "Additional info"
)

// Mention formats a Discord user mention for a user ID
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
