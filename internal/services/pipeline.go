package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bugbot/internal/domain"
	"bugbot/internal/lang"
	"bugbot/internal/logging"
	"bugbot/internal/ports"
)

// ReportDeliverer persists a finished draft and posts it to its destination
type ReportDeliverer interface {
	Deliver(ctx context.Context, draft *domain.DraftReport, dmChannelID string) (*domain.Report, error)
}

// PipelineService runs the ordered question sequence for one session,
// filling a DraftReport in place. Run's error classifies the terminal state:
// nil for Completed, domain.ErrAborted, domain.ErrRestarted,
// domain.ErrTimeout, domain.ErrDMUnavailable, or the context error on
// cancellation.
type PipelineService struct {
	interviewer     ports.Interviewer
	gateway         ports.ChatGateway
	deliverer       ReportDeliverer
	questionTimeout time.Duration
	reviewTimeout   time.Duration
}

// NewPipelineService creates a PipelineService
func NewPipelineService(
	interviewer ports.Interviewer,
	gateway ports.ChatGateway,
	deliverer ReportDeliverer,
	questionTimeout time.Duration,
	reviewTimeout time.Duration,
) *PipelineService {
	return &PipelineService{
		interviewer:     interviewer,
		gateway:         gateway,
		deliverer:       deliverer,
		questionTimeout: questionTimeout,
		reviewTimeout:   reviewTimeout,
	}
}

// Run executes the full interview for one user. Questions are strictly
// sequential; no two interviewer calls for the same session are ever
// outstanding concurrently.
func (p *PipelineService) Run(ctx context.Context, userID, triggerChannelID string) error {
	dm, err := p.gateway.OpenDM(ctx, userID)
	if err != nil {
		return err
	}

	draft := &domain.DraftReport{Reporter: userID}

	// Readiness gate
	ready := false
	err = p.interviewer.AskChoice(ctx, dm, userID, lang.QuestionReady, []ports.ChoiceOption{
		{Emoji: emojiYes, Label: lang.ReadyYes, Handler: func(ctx context.Context) error {
			ready = true
			return nil
		}},
		{Emoji: emojiNo, Label: lang.ReadyNo},
	}, p.questionTimeout)
	if err != nil {
		return err
	}
	if !ready {
		p.sendNotice(ctx, dm, lang.AbortReport)
		return domain.ErrAborted
	}

	// Platform
	err = p.interviewer.AskChoice(ctx, dm, userID, lang.QuestionPlatform, []ports.ChoiceOption{
		{Emoji: emojiAndroid, Label: "Android", Handler: setPlatform(draft, domain.PlatformAndroid)},
		{Emoji: emojiIOS, Label: "iOS", Handler: setPlatform(draft, domain.PlatformIOS)},
	}, p.questionTimeout)
	if err != nil {
		return err
	}

	draft.PlatformVersion, err = p.interviewer.AskText(ctx, dm, userID,
		fmt.Sprintf(lang.QuestionPlatformVerFmt, draft.Platform), VersionString, p.questionTimeout)
	if err != nil {
		return err
	}

	draft.DeviceInfo, err = p.interviewer.AskText(ctx, dm, userID,
		fmt.Sprintf(lang.QuestionDeviceInfoFmt, domain.MaxDeviceInfoLength),
		MaxLength(domain.MaxDeviceInfoLength), p.questionTimeout)
	if err != nil {
		return err
	}

	// Branch
	err = p.interviewer.AskChoice(ctx, dm, userID, lang.QuestionBranch, []ports.ChoiceOption{
		{Emoji: emojiStable, Label: "Live", Handler: setBranch(draft, domain.BranchStable)},
		{Emoji: emojiBeta, Label: "Beta", Handler: setBranch(draft, domain.BranchBeta)},
	}, p.questionTimeout)
	if err != nil {
		return err
	}

	// Hard eligibility gate: no Live build exists on Android
	if draft.Platform == domain.PlatformAndroid && draft.Branch == domain.BranchStable {
		p.sendNotice(ctx, dm, lang.NoLiveAndroid)
		return domain.ErrAborted
	}

	versionHelp := lang.VersionHelpIOS
	if draft.Platform == domain.PlatformAndroid {
		versionHelp = lang.VersionHelpAndroid
	}
	draft.AppVersion, err = p.interviewer.AskText(ctx, dm, userID,
		fmt.Sprintf(lang.QuestionAppVersionFmt, versionHelp), VersionString, p.questionTimeout)
	if err != nil {
		return err
	}

	draft.AppBuild, err = p.interviewer.AskText(ctx, dm, userID,
		lang.QuestionAppBuild, VersionString, p.questionTimeout)
	if err != nil {
		return err
	}

	draft.Title, err = p.interviewer.AskText(ctx, dm, userID,
		fmt.Sprintf(lang.QuestionTitleFmt, domain.MaxTitleLength),
		MaxLength(domain.MaxTitleLength), p.questionTimeout)
	if err != nil {
		return err
	}

	draft.Actual, err = p.interviewer.AskText(ctx, dm, userID,
		fmt.Sprintf(lang.QuestionActualFmt, domain.MaxActualLength),
		MaxLength(domain.MaxActualLength), p.questionTimeout)
	if err != nil {
		return err
	}

	draft.Steps, err = p.interviewer.AskText(ctx, dm, userID,
		fmt.Sprintf(lang.QuestionStepsFmt, domain.MaxStepsLength),
		MaxLength(domain.MaxStepsLength), p.questionTimeout)
	if err != nil {
		return err
	}

	draft.Expected, err = p.interviewer.AskText(ctx, dm, userID,
		fmt.Sprintf(lang.QuestionExpectedFmt, domain.MaxExpectedLength),
		MaxLength(domain.MaxExpectedLength), p.questionTimeout)
	if err != nil {
		return err
	}

	// Attachments offer
	wantAttachments := false
	err = p.interviewer.AskChoice(ctx, dm, userID, lang.QuestionAttachments, []ports.ChoiceOption{
		{Emoji: emojiYes, Label: lang.AttachmentsYes, Handler: func(ctx context.Context) error {
			wantAttachments = true
			return nil
		}},
		{Emoji: emojiNo, Label: lang.SkipStep},
	}, p.questionTimeout)
	if err != nil {
		return err
	}
	if wantAttachments {
		draft.AttachmentURLs, err = p.interviewer.AskAttachments(ctx, dm, userID)
		if err != nil {
			return err
		}
	}

	// Additional info offer
	wantAdditional := false
	err = p.interviewer.AskChoice(ctx, dm, userID, lang.QuestionAdditional, []ports.ChoiceOption{
		{Emoji: emojiYes, Label: lang.AdditionalYes, Handler: func(ctx context.Context) error {
			wantAdditional = true
			return nil
		}},
		{Emoji: emojiNo, Label: lang.SkipStep},
	}, p.questionTimeout)
	if err != nil {
		return err
	}
	if wantAdditional {
		draft.Additional, err = p.interviewer.AskText(ctx, dm, userID,
			fmt.Sprintf(lang.QuestionAdditionalFmt, domain.MaxAdditionalLength),
			MaxLength(domain.MaxAdditionalLength), p.questionTimeout)
		if err != nil {
			return err
		}
	}

	// Preview & confirm
	preview := fmt.Sprintf(lang.ReportPreviewHeaderFmt, lang.Mention(userID)) + "\n" + draft.Preview()
	if _, err := p.gateway.SendMessage(ctx, dm, preview); err != nil {
		return err
	}
	if len(draft.AttachmentURLs) > 0 {
		p.sendNotice(ctx, dm, strings.Join(draft.AttachmentURLs, "\n"))
	}

	err = p.interviewer.AskChoice(ctx, dm, userID,
		fmt.Sprintf(lang.QuestionOKFmt, p.reviewTimeout.String()), []ports.ChoiceOption{
			{Emoji: emojiYes, Label: lang.SendReport, Handler: func(ctx context.Context) error {
				_, derr := p.deliverer.Deliver(ctx, draft, dm)
				return derr
			}},
			{Emoji: emojiNo, Label: lang.Mistake, Handler: func(ctx context.Context) error {
				return domain.ErrRestarted
			}},
		}, p.reviewTimeout)
	if err != nil {
		return err
	}

	logging.Logger.Info("Bug report interview completed", "user", userID)
	return nil
}

// sendNotice delivers a best-effort informational message; a failed notice
// never changes the session outcome
func (p *PipelineService) sendNotice(ctx context.Context, channelID, content string) {
	if _, err := p.gateway.SendMessage(ctx, channelID, content); err != nil {
		logging.Logger.Warn("Failed to send notice", "channel", channelID, "error", err)
	}
}

func setPlatform(draft *domain.DraftReport, platform domain.Platform) func(context.Context) error {
	return func(context.Context) error {
		draft.Platform = platform
		return nil
	}
}

func setBranch(draft *domain.DraftReport, branch domain.Branch) func(context.Context) error {
	return func(context.Context) error {
		draft.Branch = branch
		return nil
	}
}

// Reaction emoji used by the choice questions
const (
	emojiYes     = "✅" // white check mark
	emojiNo      = "❌" // cross mark
	emojiAndroid = "\U0001F916" // robot
	emojiIOS     = "\U0001F34E" // red apple
	emojiStable  = "\U0001F7E2" // green circle
	emojiBeta    = "\U0001F9EA" // test tube
)
