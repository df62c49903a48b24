package ports

import (
	"context"
	"time"
)

// Validator checks a candidate free-text answer. A nil return accepts the
// answer; a non-nil return carries the rejection message shown to the user
// before the question is re-posed.
type Validator func(text string) error

// ChoiceOption is one selectable answer for AskChoice. Handler, when set, is
// invoked on selection with the interviewer's context; it is the mechanism
// that lets a single choice primitive drive every branching question.
type ChoiceOption struct {
	Emoji   string
	Label   string
	Handler func(ctx context.Context) error
}

// Interviewer presents a single question to a user on a channel and resolves
// a single answer. Implementations own the retry loop for rejected answers.
// Waits fail with domain.ErrTimeout when the window elapses and with the
// context error when an external cancellation reaches the wait.
type Interviewer interface {
	// AskChoice posts a prompt with reaction options and runs the selected
	// option's handler.
	AskChoice(ctx context.Context, channelID, userID, prompt string, options []ChoiceOption, timeout time.Duration) error

	// AskText posts a prompt and waits for a message from the user that
	// passes the validator, re-prompting on rejection.
	AskText(ctx context.Context, channelID, userID, prompt string, validator Validator, timeout time.Duration) (string, error)

	// AskAttachments collects zero or more attachment URLs from the user.
	AskAttachments(ctx context.Context, channelID, userID string) ([]string, error)
}
