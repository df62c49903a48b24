package domain

import "errors"

var (
	// ErrTimeout is returned by interviewer waits when the response window elapses
	ErrTimeout = errors.New("question timed out")
	// ErrAborted is returned by the pipeline when the user declines to continue
	ErrAborted = errors.New("report aborted")
	// ErrRestarted is returned by the pipeline when the user asks to start over
	ErrRestarted = errors.New("report restarted")
	// ErrDMUnavailable is returned when a private channel cannot be opened
	ErrDMUnavailable = errors.New("cannot open DM channel")
	// ErrReportNotFound is returned by the report repository for unknown IDs
	ErrReportNotFound = errors.New("report not found")
	// ErrSessionExists is returned by the registry on duplicate registration
	ErrSessionExists = errors.New("session already exists for user")
)
