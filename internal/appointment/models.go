// Package appointment implements booking and the upcoming-appointments
// views for both roles.
package appointment

import (
	"time"

	"mediconnect/pkg/domain"
)

// Appointment links a patient with a doctor at a point in time.
type Appointment struct {
	ID        domain.AppointmentID `json:"id"`
	PatientID domain.UserID        `json:"patient_id"`
	DoctorID  domain.UserID        `json:"doctor_id"`
	Date      time.Time            `json:"date"`
	CreatedAt time.Time            `json:"created_at"`
}
