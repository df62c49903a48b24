package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"bugbot/internal/domain"
)

// SessionHandle is the registry's view of one running interview task
type SessionHandle struct {
	TaskID string
	cancel context.CancelFunc
}

// Cancel signals the session's task to stop
func (h *SessionHandle) Cancel() {
	if h.cancel != nil {
		h.cancel()
	}
}

// SessionRegistry tracks the single in-flight interview session per user and
// the set of users currently inside a start-over negotiation. All operations
// are atomic; insert-if-absent and remove are paired on every exit path so
// the registry never holds an entry for a task that is no longer running.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*SessionHandle
	blocking map[string]struct{}
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*SessionHandle),
		blocking: make(map[string]struct{}),
	}
}

// Register inserts a session handle for the user if absent. It returns
// domain.ErrSessionExists when the user already has a running session.
func (r *SessionRegistry) Register(userID string, cancel context.CancelFunc) (*SessionHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[userID]; exists {
		return nil, domain.ErrSessionExists
	}

	handle := &SessionHandle{TaskID: uuid.New().String(), cancel: cancel}
	r.sessions[userID] = handle
	return handle, nil
}

// Has reports whether the user has a running session
func (r *SessionRegistry) Has(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.sessions[userID]
	return exists
}

// Get returns the user's session handle, or nil
func (r *SessionRegistry) Get(userID string) *SessionHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userID]
}

// Remove deletes the user's registry entry when it is still owned by the
// given task. A session replaced by a start-over no longer owns the entry,
// so its cleanup leaves the replacement's registration alone. Removing an
// absent or reassigned entry is a no-op, so every exit path can call it
// unconditionally.
func (r *SessionRegistry) Remove(userID, taskID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle, exists := r.sessions[userID]
	if !exists || handle.TaskID != taskID {
		return false
	}
	delete(r.sessions, userID)
	return true
}

// CancelAndRemove cancels the user's running task and removes its entry
func (r *SessionRegistry) CancelAndRemove(userID string) bool {
	r.mu.Lock()
	handle, exists := r.sessions[userID]
	if exists {
		delete(r.sessions, userID)
	}
	r.mu.Unlock()

	if !exists {
		return false
	}
	handle.Cancel()
	return true
}

// Block marks the user as inside a start-over negotiation. Returns false if
// the user is already blocked, which suppresses duplicate triggers.
func (r *SessionRegistry) Block(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, blocked := r.blocking[userID]; blocked {
		return false
	}
	r.blocking[userID] = struct{}{}
	return true
}

// Unblock clears the negotiation marker. Safe to call when not blocked.
func (r *SessionRegistry) Unblock(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blocking, userID)
}

// IsBlocked reports whether the user is inside a start-over negotiation
func (r *SessionRegistry) IsBlocked(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, blocked := r.blocking[userID]
	return blocked
}

// ActiveCount returns the number of running sessions
func (r *SessionRegistry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
