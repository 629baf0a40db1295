package appointment

import (
	"context"
	"time"

	"mediconnect/pkg/domain"
)

// Store persists appointments. Upcoming queries return rows with a date at
// or after the given instant, soonest first, capped at limit.
type Store interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id domain.AppointmentID) (*Appointment, error)
	UpcomingForPatient(ctx context.Context, patientID domain.UserID, from time.Time, limit int) ([]*Appointment, error)
	UpcomingForDoctor(ctx context.Context, doctorID domain.UserID, from time.Time, limit int) ([]*Appointment, error)
}
