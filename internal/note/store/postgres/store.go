// Package postgres implements the note store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mediconnect/internal/note"
	"mediconnect/pkg/domain"
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

// execer lets Create join a transaction carried in context, so the note
// row and its audit entry commit together.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Create(ctx context.Context, n *note.Note) error {
	query := `
		INSERT INTO notes (id, appointment_id, doctor_id, patient_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(n.ID),
		uuid.UUID(n.AppointmentID),
		uuid.UUID(n.DoctorID),
		uuid.UUID(n.PatientID),
		n.Content,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *Store) ListByAppointment(ctx context.Context, appointmentID domain.AppointmentID) ([]*note.Note, error) {
	query := `
		SELECT id, appointment_id, doctor_id, patient_id, content, created_at
		FROM notes
		WHERE appointment_id = $1
		ORDER BY created_at DESC
	`
	return s.query(ctx, query, uuid.UUID(appointmentID))
}

func (s *Store) ListByDoctorAndPatient(ctx context.Context, doctorID, patientID domain.UserID) ([]*note.Note, error) {
	query := `
		SELECT id, appointment_id, doctor_id, patient_id, content, created_at
		FROM notes
		WHERE doctor_id = $1 AND patient_id = $2
		ORDER BY created_at DESC
	`
	return s.query(ctx, query, uuid.UUID(doctorID), uuid.UUID(patientID))
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]*note.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []*note.Note
	for rows.Next() {
		var (
			n             note.Note
			id            uuid.UUID
			appointmentID uuid.UUID
			doctorID      uuid.UUID
			patientID     uuid.UUID
		)
		err := rows.Scan(&id, &appointmentID, &doctorID, &patientID, &n.Content, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.ID = domain.NoteID(id)
		n.AppointmentID = domain.AppointmentID(appointmentID)
		n.DoctorID = domain.UserID(doctorID)
		n.PatientID = domain.UserID(patientID)
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
