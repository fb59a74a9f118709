package model

import "github.com/google/uuid"

// Session carries the subject of an authenticated session as observed
// from the auth layer. The session itself (token lifetime, refresh) is
// owned by the auth service; the resolver only reads the subject.
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Identity is the application-level user view derived by joining a
// session subject against its profile and role rows. It is rebuilt
// wholesale on every resolution and never partially mutated.
type Identity struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   UserRole  `json:"role"`
	Avatar *string   `json:"avatar,omitempty"`
	Phone  *string   `json:"phone,omitempty"`
}

// Session event types published on the messaging broker.
const (
	SessionSignedIn  = "signed_in"
	SessionSignedOut = "signed_out"

	// SessionChannel is the broker channel for session lifecycle events.
	SessionChannel = "sessions.events"
)

// SessionEvent notifies subscribers of a session transition.
type SessionEvent struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"user_id,omitempty"`
	Email  string    `json:"email,omitempty"`
}
