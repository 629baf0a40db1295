package note

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"mediconnect/internal/appointment"
	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/platform/audit"
	"mediconnect/pkg/platform/tx"
	"mediconnect/pkg/requestcontext"
)

const (
	minContentLength = 10
	maxContentLength = 10000
)

// AppointmentLookup resolves an appointment for ownership checks.
// Satisfied by appointment.Service.
type AppointmentLookup interface {
	GetByID(ctx context.Context, id domain.AppointmentID) (*appointment.Appointment, error)
}

type Service struct {
	store        Store
	appointments AppointmentLookup
	recorder     *audit.Recorder
	runner       tx.Runner
	logger       *slog.Logger
}

type Option func(*Service)

// WithTxRunner makes Create write the note and its audit entry in one
// transaction. Requires a store and audit store that share the runner's
// database handle.
func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) { s.runner = runner }
}

func NewService(store Store, appointments AppointmentLookup, recorder *audit.Recorder, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		appointments: appointments,
		recorder:     recorder,
		runner:       tx.NopRunner{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create attaches a note to an appointment. Only the doctor assigned to
// that appointment may write one; any other doctor is refused before a note
// or audit entry exists.
func (s *Service) Create(ctx context.Context, appointmentID domain.AppointmentID, content string) (*Note, error) {
	principal := requestcontext.Principal(ctx)
	if err := rbac.Authorize(principal, rbac.RoleDoctor); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, dErrors.MissingField("content")
	}
	// Length limits count characters, not bytes, so multibyte text is not
	// over- or under-counted.
	if length := utf8.RuneCountInString(trimmed); length < minContentLength {
		return nil, dErrors.Validation("content", "Content must be at least 10 characters long")
	} else if length > maxContentLength {
		return nil, dErrors.Validation("content", "Content is too long")
	}

	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Validation("appointmentId", "Invalid appointment ID")
		}
		return nil, err
	}

	if appt.DoctorID != principal.SubjectID {
		return nil, dErrors.New(dErrors.CodeForbidden, "Unauthorized to add note to this appointment")
	}

	n := &Note{
		ID:            domain.NewNoteID(),
		AppointmentID: appointmentID,
		DoctorID:      principal.SubjectID,
		PatientID:     appt.PatientID,
		Content:       trimmed,
		CreatedAt:     requestcontext.Now(ctx).UTC(),
	}

	err = s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, n); err != nil {
			return dErrors.Database(err)
		}
		return s.recorder.Record(ctx, audit.Entry{
			ActorID:    principal.SubjectID,
			ActorRole:  string(principal.Role),
			Action:     audit.ActionNoteCreated,
			ResourceID: n.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "clinical note created",
		"note_id", n.ID,
		"appointment_id", appointmentID,
	)
	return n, nil
}

// ListByAppointment returns an appointment's notes to either party of that
// appointment: its doctor or its patient. Everyone else is refused.
func (s *Service) ListByAppointment(ctx context.Context, appointmentID domain.AppointmentID) ([]*Note, error) {
	principal := requestcontext.Principal(ctx)
	if err := rbac.Authorize(principal, rbac.RolePatient, rbac.RoleDoctor); err != nil {
		return nil, err
	}

	appt, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	isDoctor := principal.Role == rbac.RoleDoctor && appt.DoctorID == principal.SubjectID
	isPatient := principal.Role == rbac.RolePatient && appt.PatientID == principal.SubjectID
	if !isDoctor && !isPatient {
		return nil, dErrors.New(dErrors.CodeForbidden, "Unauthorized to view notes for this appointment")
	}

	notes, err := s.store.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, dErrors.Database(err)
	}

	if err := s.recorder.Record(ctx, audit.Entry{
		ActorID:    principal.SubjectID,
		ActorRole:  string(principal.Role),
		Action:     audit.ActionNotesViewed,
		ResourceID: appointmentID.String(),
	}); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListForPatient returns the calling doctor's notes about one patient.
// Notes written by other doctors stay invisible.
func (s *Service) ListForPatient(ctx context.Context, patientID domain.UserID) ([]*Note, error) {
	principal := requestcontext.Principal(ctx)
	if err := rbac.Authorize(principal, rbac.RoleDoctor); err != nil {
		return nil, err
	}

	notes, err := s.store.ListByDoctorAndPatient(ctx, principal.SubjectID, patientID)
	if err != nil {
		return nil, dErrors.Database(err)
	}

	if err := s.recorder.Record(ctx, audit.Entry{
		ActorID:    principal.SubjectID,
		ActorRole:  string(principal.Role),
		Action:     audit.ActionNotesViewed,
		ResourceID: patientID.String(),
	}); err != nil {
		return nil, err
	}
	return notes, nil
}
