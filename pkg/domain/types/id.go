package types

// SessionID identifies a session. It is the sessionId recorded inside the
// log when present, otherwise the log file name without extension.
type SessionID string

// String returns the string representation of the session ID
func (s SessionID) String() string {
	return string(s)
}

// TaskID identifies a stored task annotation (UUID, server-generated)
type TaskID string

// String returns the string representation of the task ID
func (t TaskID) String() string {
	return string(t)
}

// InteractionID identifies an interaction within its session. IDs follow
// the "interaction-{n}" convention where n is the 1-based ordinal of the
// interaction in file order, so they are stable across re-parses.
type InteractionID string

// String returns the string representation of the interaction ID
func (i InteractionID) String() string {
	return string(i)
}
