// Package postgres implements the appointment store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mediconnect/internal/appointment"
	"mediconnect/pkg/domain"
	"mediconnect/pkg/platform/sentinel"
	txcontext "mediconnect/pkg/platform/tx"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer lets Create join a transaction carried in context, so the
// appointment row and its audit entry commit together.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Create(ctx context.Context, appt *appointment.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(appt.ID),
		uuid.UUID(appt.PatientID),
		uuid.UUID(appt.DoctorID),
		appt.Date,
		appt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id domain.AppointmentID) (*appointment.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, created_at
		FROM appointments
		WHERE id = $1
	`
	return scanAppointment(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) UpcomingForPatient(ctx context.Context, patientID domain.UserID, from time.Time, limit int) ([]*appointment.Appointment, error) {
	return s.upcoming(ctx, "patient_id", uuid.UUID(patientID), from, limit)
}

func (s *Store) UpcomingForDoctor(ctx context.Context, doctorID domain.UserID, from time.Time, limit int) ([]*appointment.Appointment, error) {
	return s.upcoming(ctx, "doctor_id", uuid.UUID(doctorID), from, limit)
}

func (s *Store) upcoming(ctx context.Context, column string, partyID uuid.UUID, from time.Time, limit int) ([]*appointment.Appointment, error) {
	// column is one of two compile-time constants, never caller input.
	query := fmt.Sprintf(`
		SELECT id, patient_id, doctor_id, date, created_at
		FROM appointments
		WHERE %s = $1 AND date >= $2
		ORDER BY date ASC
		LIMIT $3
	`, column)

	rows, err := s.db.QueryContext(ctx, query, partyID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("query upcoming appointments: %w", err)
	}
	defer rows.Close()

	var appts []*appointment.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*appointment.Appointment, error) {
	var (
		appt      appointment.Appointment
		id        uuid.UUID
		patientID uuid.UUID
		doctorID  uuid.UUID
	)
	err := row.Scan(&id, &patientID, &doctorID, &appt.Date, &appt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan appointment: %w", err)
	}
	appt.ID = domain.AppointmentID(id)
	appt.PatientID = domain.UserID(patientID)
	appt.DoctorID = domain.UserID(doctorID)
	return &appt, nil
}
