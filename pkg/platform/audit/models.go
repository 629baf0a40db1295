// Package audit records who did what, when, to which resource. Entries are
// append-only: the application creates them exactly once per sensitive
// action and never mutates or deletes them.
package audit

import (
	"time"

	"mediconnect/pkg/domain"
)

// Action names a sensitive operation. Keep these stable: they are queried
// by compliance tooling long after the code that emitted them has changed.
type Action string

const (
	// Account actions
	ActionUserRegistered Action = "user_registered"
	ActionUserLoggedIn   Action = "user_logged_in"
	ActionUserLoggedOut  Action = "user_logged_out"

	// Appointment actions
	ActionAppointmentCreated Action = "appointment_created"
	ActionAppointmentsViewed Action = "appointments_viewed"

	// Clinical note actions
	ActionNoteCreated Action = "note_created"
	ActionNotesViewed Action = "notes_viewed"

	// Directory actions
	ActionDoctorsViewed Action = "doctors_viewed"
)

// Entry is one immutable audit record. ActorRole is the role asserted by
// the actor's verified token at the time of the action, not the role
// currently in storage.
type Entry struct {
	ActorID    domain.UserID
	ActorRole  string
	Action     Action
	ResourceID string // optional: the record acted upon
	RequestID  string // correlation ID from the request context
	Timestamp  time.Time
}
