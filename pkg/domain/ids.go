// Package domain holds the typed identifiers shared across services. Using
// distinct UUID types keeps patient, doctor, appointment, and note IDs from
// being swapped at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "mediconnect/pkg/domain-errors"
)

type (
	// UserID identifies an account (patient or doctor).
	UserID uuid.UUID
	// AppointmentID identifies a booked appointment.
	AppointmentID uuid.UUID
	// NoteID identifies a clinical note.
	NoteID uuid.UUID
)

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id AppointmentID) String() string { return uuid.UUID(id).String() }
func (id NoteID) String() string        { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id AppointmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id NoteID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }

// The named types do not inherit uuid.UUID's marshalers, so each implements
// encoding.TextMarshaler/TextUnmarshaler to keep the canonical string form
// on the wire and in logs.

func (id UserID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id AppointmentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id NoteID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AppointmentID) UnmarshalText(text []byte) error {
	parsed, err := ParseAppointmentID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *NoteID) UnmarshalText(text []byte) error {
	parsed, err := ParseNoteID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewAppointmentID returns a fresh random appointment ID.
func NewAppointmentID() AppointmentID { return AppointmentID(uuid.New()) }

// NewNoteID returns a fresh random note ID.
func NewNoteID() NoteID { return NoteID(uuid.New()) }

// parseUUID enforces the trust-boundary invariant: IDs must be valid,
// non-empty, non-nil UUIDs in the canonical 36-character hyphenated form.
// uuid.Parse alone also accepts braced, URN-prefixed, and hyphenless
// spellings, which would let a path segment carry several spellings of the
// same ID; those are rejected here. Everything arriving from a request
// path or body goes through here before touching a store.
func parseUUID(raw, field string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.MissingField(field)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil || parsed.String() != strings.ToLower(raw) {
		return uuid.Nil, dErrors.Validation(field, "must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Validation(field, "must not be the nil UUID")
	}
	return parsed, nil
}

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "userId")
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseAppointmentID parses and validates an appointment ID from its string form.
func ParseAppointmentID(raw string) (AppointmentID, error) {
	parsed, err := parseUUID(raw, "appointmentId")
	if err != nil {
		return AppointmentID{}, err
	}
	return AppointmentID(parsed), nil
}

// ParseNoteID parses and validates a note ID from its string form.
func ParseNoteID(raw string) (NoteID, error) {
	parsed, err := parseUUID(raw, "noteId")
	if err != nil {
		return NoteID{}, err
	}
	return NoteID(parsed), nil
}
