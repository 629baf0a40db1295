package appointment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mediconnect/internal/account"
	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/platform/audit"
	"mediconnect/pkg/platform/sentinel"
	"mediconnect/pkg/platform/tx"
	"mediconnect/pkg/requestcontext"
)

// upcomingLimit caps the rows returned by the upcoming views.
const upcomingLimit = 20

// DoctorDirectory resolves a user ID to a doctor, rejecting IDs that do
// not belong to a DOCTOR account. Satisfied by account.Service.
type DoctorDirectory interface {
	GetDoctor(ctx context.Context, id domain.UserID) (*account.User, error)
}

type Service struct {
	store    Store
	doctors  DoctorDirectory
	recorder *audit.Recorder
	runner   tx.Runner
	logger   *slog.Logger
}

type Option func(*Service)

// WithTxRunner makes Create write the appointment and its audit entry in
// one transaction. Requires a store and audit store that share the
// runner's database handle.
func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) { s.runner = runner }
}

func NewService(store Store, doctors DoctorDirectory, recorder *audit.Recorder, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		doctors:  doctors,
		recorder: recorder,
		runner:   tx.NopRunner{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create books an appointment for the calling patient. The date must be in
// the future and the doctor ID must belong to a DOCTOR account.
func (s *Service) Create(ctx context.Context, doctorID domain.UserID, date time.Time) (*Appointment, error) {
	principal := requestcontext.Principal(ctx)
	if err := rbac.Authorize(principal, rbac.RolePatient); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	if !date.After(now) {
		return nil, dErrors.Validation("appointmentDate", "Appointment date must be in the future")
	}

	if _, err := s.doctors.GetDoctor(ctx, doctorID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Validation("doctorId", "Invalid doctor ID or user is not a doctor")
		}
		return nil, err
	}

	appt := &Appointment{
		ID:        domain.NewAppointmentID(),
		PatientID: principal.SubjectID,
		DoctorID:  doctorID,
		Date:      date.UTC(),
		CreatedAt: now.UTC(),
	}

	err := s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, appt); err != nil {
			return dErrors.Database(err)
		}
		return s.recorder.Record(ctx, audit.Entry{
			ActorID:    principal.SubjectID,
			ActorRole:  string(principal.Role),
			Action:     audit.ActionAppointmentCreated,
			ResourceID: appt.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "appointment created",
		"appointment_id", appt.ID,
		"doctor_id", doctorID,
	)
	return appt, nil
}

// UpcomingForPatient lists the calling patient's future appointments,
// soonest first.
func (s *Service) UpcomingForPatient(ctx context.Context) ([]*Appointment, error) {
	principal := requestcontext.Principal(ctx)
	if err := rbac.Authorize(principal, rbac.RolePatient); err != nil {
		return nil, err
	}
	appts, err := s.store.UpcomingForPatient(ctx, principal.SubjectID, requestcontext.Now(ctx), upcomingLimit)
	if err != nil {
		return nil, dErrors.Database(err)
	}
	return appts, s.recordViewed(ctx, principal)
}

// UpcomingForDoctor lists the calling doctor's future appointments,
// soonest first.
func (s *Service) UpcomingForDoctor(ctx context.Context) ([]*Appointment, error) {
	principal := requestcontext.Principal(ctx)
	if err := rbac.Authorize(principal, rbac.RoleDoctor); err != nil {
		return nil, err
	}
	appts, err := s.store.UpcomingForDoctor(ctx, principal.SubjectID, requestcontext.Now(ctx), upcomingLimit)
	if err != nil {
		return nil, dErrors.Database(err)
	}
	return appts, s.recordViewed(ctx, principal)
}

func (s *Service) recordViewed(ctx context.Context, principal *rbac.Principal) error {
	return s.recorder.Record(ctx, audit.Entry{
		ActorID:   principal.SubjectID,
		ActorRole: string(principal.Role),
		Action:    audit.ActionAppointmentsViewed,
	})
}

// GetByID fetches a single appointment without an access check. Callers
// gate access themselves; the note service uses this for its ownership
// checks.
func (s *Service) GetByID(ctx context.Context, id domain.AppointmentID) (*Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.NotFound("Appointment")
	}
	if err != nil {
		return nil, dErrors.Database(err)
	}
	return appt, nil
}
