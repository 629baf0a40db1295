// Package note implements clinical notes: doctor-authored observations
// attached to an appointment. Notes carry PHI, so every read and write is
// audited and gated on the caller's relationship to the appointment.
package note

import (
	"time"

	"mediconnect/pkg/domain"
)

// Note is one clinical observation. PatientID is denormalized from the
// appointment so per-patient queries don't need a join.
type Note struct {
	ID            domain.NoteID        `json:"id"`
	AppointmentID domain.AppointmentID `json:"appointment_id"`
	DoctorID      domain.UserID        `json:"doctor_id"`
	PatientID     domain.UserID        `json:"patient_id"`
	Content       string               `json:"content"`
	CreatedAt     time.Time            `json:"created_at"`
}
