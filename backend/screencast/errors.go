package screencast

import "fmt"

// SessionExistsError is returned when a session path is already in use.
type SessionExistsError struct {
	Path string
}

func (e *SessionExistsError) Error() string {
	return "session already exists: " + e.Path
}

// SessionNotFoundError is returned for an unknown (or expired) session path.
type SessionNotFoundError struct {
	Path string
}

func (e *SessionNotFoundError) Error() string {
	return "session not found: " + e.Path
}

// SessionOwnerError is returned when a call references a session created by another app.
type SessionOwnerError struct {
	Path  string
	AppID string
}

func (e *SessionOwnerError) Error() string {
	return fmt.Sprintf("session %s does not belong to %q", e.Path, e.AppID)
}

// SelectionError reports invalid SelectSources options.
type SelectionError struct {
	Field   string
	Message string
}

func (e *SelectionError) Error() string {
	return e.Field + ": " + e.Message
}

// StateError is returned when a session is not in the state a call requires.
type StateError struct {
	Path string
	Have SessionState
	Want SessionState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("session %s is %s, want %s", e.Path, e.Have, e.Want)
}
