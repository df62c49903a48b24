package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bugbot/internal/domain"
	"bugbot/internal/lang"
	"bugbot/internal/logging"
	"bugbot/internal/ports"
)

// Auto-delete windows for transient notices on the trigger channel
const (
	stopSpammingTTL = 10 * time.Second
	dmUnableTTL     = 30 * time.Second
)

// pipelineRunner is the seam between controller and pipeline
type pipelineRunner interface {
	Run(ctx context.Context, userID, triggerChannelID string) error
}

// SessionController decides whether a report-filing request starts a new
// session, is rejected, or replaces an existing one, and owns the cleanup
// contract: every terminal path out of a running session removes the
// registry entry exactly once, before any diagnostics forwarding.
type SessionController struct {
	rootCtx         context.Context
	registry        *SessionRegistry
	gateway         ports.ChatGateway
	interviewer     ports.Interviewer
	pipeline        pipelineRunner
	diagnostics     ports.Diagnostics
	questionTimeout time.Duration

	wg sync.WaitGroup
}

// NewSessionController creates a SessionController. Sessions spawned by
// Request are parented to rootCtx, not to the per-request context, so a
// finished trigger does not tear down the interview it started.
func NewSessionController(
	rootCtx context.Context,
	registry *SessionRegistry,
	gateway ports.ChatGateway,
	interviewer ports.Interviewer,
	pipeline pipelineRunner,
	diagnostics ports.Diagnostics,
	questionTimeout time.Duration,
) *SessionController {
	return &SessionController{
		rootCtx:         rootCtx,
		registry:        registry,
		gateway:         gateway,
		interviewer:     interviewer,
		pipeline:        pipeline,
		diagnostics:     diagnostics,
		questionTimeout: questionTimeout,
	}
}

// Request handles one report-filing trigger for a user. Ineligible users are
// silently ignored. The restart path is an explicit loop, not recursion, so
// repeated start-overs cannot grow the stack.
func (c *SessionController) Request(ctx context.Context, userID, triggerChannelID string) error {
	if !c.gateway.IsEligible(ctx, userID) {
		logging.Logger.Debug("Ignoring report request from ineligible user", "user", userID)
		return nil
	}

	for {
		sessionCtx, cancel := context.WithCancel(c.rootCtx)
		handle, err := c.registry.Register(userID, cancel)
		if err == nil {
			c.wg.Add(1)
			go c.runSession(sessionCtx, userID, triggerChannelID, handle.TaskID)
			return nil
		}
		cancel()

		if !errors.Is(err, domain.ErrSessionExists) {
			return err
		}

		// A session is already running. Only one start-over negotiation may
		// be in flight per user; further triggers get a transient notice.
		if !c.registry.Block(userID) {
			if serr := c.gateway.SendTransient(ctx, triggerChannelID,
				fmt.Sprintf(lang.StopSpammingFmt, lang.Mention(userID)), stopSpammingTTL); serr != nil {
				logging.Logger.Warn("Failed to send duplicate-trigger notice", "user", userID, "error", serr)
			}
			return nil
		}

		shouldReset := false
		askErr := c.interviewer.AskChoice(ctx, triggerChannelID, userID,
			fmt.Sprintf(lang.StartOverFmt, lang.Mention(userID)),
			[]ports.ChoiceOption{
				{Emoji: emojiYes, Label: lang.StartOverYes, Handler: func(context.Context) error {
					shouldReset = true
					return nil
				}},
				{Emoji: emojiNo, Label: lang.StartOverNo},
			}, c.questionTimeout)
		c.registry.Unblock(userID)

		if askErr != nil || !shouldReset {
			// Declined, timed out, or cancelled: leave the running session alone
			return nil
		}

		c.registry.CancelAndRemove(userID)
		logging.Logger.Info("Cancelled in-progress report for restart", "user", userID)
		// loop back to the start-new-session path
	}
}

// Wait blocks until all spawned session tasks have finished
func (c *SessionController) Wait() {
	c.wg.Wait()
}

// runSession executes the pipeline for one session and applies the cleanup
// contract on every exit path
func (c *SessionController) runSession(ctx context.Context, userID, triggerChannelID, taskID string) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			// Cleanup first, unconditionally, then forward
			c.registry.Remove(userID, taskID)
			err := fmt.Errorf("panic in bug report session: %v", r)
			logging.Logger.Error("Session task panicked", "user", userID, "task", taskID, "error", err)
			c.diagnostics.ReportError(c.rootCtx, "bug reporting", err)
		}
	}()

	logging.Logger.Info("Starting bug report session", "user", userID, "task", taskID)
	err := c.pipeline.Run(ctx, userID, triggerChannelID)

	// Owner-scoped: a session cancelled by a start-over must not evict the
	// replacement session registered in its place
	c.registry.Remove(userID, taskID)

	switch {
	case err == nil:
		logging.Logger.Info("Bug report session completed", "user", userID, "task", taskID)
	case errors.Is(err, domain.ErrAborted):
		logging.Logger.Debug("Bug report session aborted", "user", userID, "task", taskID)
	case errors.Is(err, domain.ErrRestarted):
		// The user confirmed intent at the preview step; re-enter the
		// new-session path directly, no negotiation needed
		logging.Logger.Info("Bug report session restarting", "user", userID, "task", taskID)
		if rerr := c.Request(c.rootCtx, userID, triggerChannelID); rerr != nil {
			logging.Logger.Error("Failed to restart session", "user", userID, "error", rerr)
		}
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.Canceled):
		// Session abandoned; whoever cancelled already said what needed saying
		logging.Logger.Debug("Bug report session abandoned", "user", userID, "task", taskID, "error", err)
	case errors.Is(err, domain.ErrDMUnavailable):
		if serr := c.gateway.SendTransient(c.rootCtx, triggerChannelID,
			fmt.Sprintf(lang.DMUnableFmt, lang.Mention(userID)), dmUnableTTL); serr != nil {
			logging.Logger.Warn("Failed to send DM-unavailable notice", "user", userID, "error", serr)
		}
	default:
		logging.Logger.Error("Bug report session failed", "user", userID, "task", taskID, "error", err)
		c.diagnostics.ReportError(c.rootCtx, "bug reporting", err)
	}
}
