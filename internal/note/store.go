package note

import (
	"context"

	"mediconnect/pkg/domain"
)

// Store persists clinical notes. List queries return newest first.
type Store interface {
	Create(ctx context.Context, n *Note) error
	ListByAppointment(ctx context.Context, appointmentID domain.AppointmentID) ([]*Note, error)
	ListByDoctorAndPatient(ctx context.Context, doctorID, patientID domain.UserID) ([]*Note, error)
}
