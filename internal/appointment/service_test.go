package appointment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect/internal/account"
	"mediconnect/internal/appointment"
	"mediconnect/internal/appointment/store/memory"
	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/platform/audit"
	auditmemory "mediconnect/pkg/platform/audit/store/memory"
	"mediconnect/pkg/requestcontext"
)

type stubDirectory struct {
	doctors map[domain.UserID]*account.User
}

func (d *stubDirectory) GetDoctor(_ context.Context, id domain.UserID) (*account.User, error) {
	if doctor, ok := d.doctors[id]; ok {
		return doctor, nil
	}
	return nil, dErrors.NotFound("Doctor")
}

type fixture struct {
	service    *appointment.Service
	auditStore *auditmemory.InMemoryStore
	doctorID   domain.UserID
	patientID  domain.UserID
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditStore := auditmemory.NewInMemoryStore()

	doctorID := domain.NewUserID()
	directory := &stubDirectory{doctors: map[domain.UserID]*account.User{
		doctorID: {ID: doctorID, Name: "Dr Watson", Role: rbac.RoleDoctor},
	}}

	return &fixture{
		service:    appointment.NewService(memory.New(), directory, audit.NewRecorder(auditStore, logger), logger),
		auditStore: auditStore,
		doctorID:   doctorID,
		patientID:  domain.NewUserID(),
		now:        time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) patientCtx() context.Context {
	ctx := requestcontext.WithPrincipal(context.Background(), &rbac.Principal{
		SubjectID: f.patientID,
		Role:      rbac.RolePatient,
	})
	return requestcontext.WithTime(ctx, f.now)
}

func (f *fixture) doctorCtx() context.Context {
	ctx := requestcontext.WithPrincipal(context.Background(), &rbac.Principal{
		SubjectID: f.doctorID,
		Role:      rbac.RoleDoctor,
	})
	return requestcontext.WithTime(ctx, f.now)
}

func TestCreate(t *testing.T) {
	t.Run("books a future appointment", func(t *testing.T) {
		f := newFixture(t)
		date := f.now.Add(48 * time.Hour)

		appt, err := f.service.Create(f.patientCtx(), f.doctorID, date)

		require.NoError(t, err)
		assert.Equal(t, f.patientID, appt.PatientID)
		assert.Equal(t, f.doctorID, appt.DoctorID)
		assert.True(t, appt.Date.Equal(date))

		entries, err := f.auditStore.ListRecent(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, audit.ActionAppointmentCreated, entries[0].Action)
		assert.Equal(t, appt.ID.String(), entries[0].ResourceID)
	})

	t.Run("past date rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Create(f.patientCtx(), f.doctorID, f.now.Add(-time.Hour))

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Zero(t, f.auditStore.Len())
	})

	t.Run("exact current instant rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Create(f.patientCtx(), f.doctorID, f.now)

		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("unknown doctor rejected as validation error", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Create(f.patientCtx(), domain.NewUserID(), f.now.Add(time.Hour))

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Zero(t, f.auditStore.Len())
	})

	t.Run("doctor cannot book", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Create(f.doctorCtx(), f.doctorID, f.now.Add(time.Hour))

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		assert.Zero(t, f.auditStore.Len(), "denied requests leave no audit trail entry")
	})

	t.Run("anonymous caller unauthorized", func(t *testing.T) {
		f := newFixture(t)
		ctx := requestcontext.WithTime(context.Background(), f.now)

		_, err := f.service.Create(ctx, f.doctorID, f.now.Add(time.Hour))

		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("store write and audit entry run under one runner call", func(t *testing.T) {
		f := newFixture(t)
		runner := &spyRunner{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		directory := &stubDirectory{doctors: map[domain.UserID]*account.User{
			f.doctorID: {ID: f.doctorID, Name: "Dr Watson", Role: rbac.RoleDoctor},
		}}
		svc := appointment.NewService(memory.New(), directory, audit.NewRecorder(f.auditStore, logger), logger,
			appointment.WithTxRunner(runner))

		_, err := svc.Create(f.patientCtx(), f.doctorID, f.now.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, 1, runner.calls)
		assert.Equal(t, 1, f.auditStore.Len())
	})

	t.Run("runner failure surfaces and aborts the booking", func(t *testing.T) {
		f := newFixture(t)
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		directory := &stubDirectory{doctors: map[domain.UserID]*account.User{
			f.doctorID: {ID: f.doctorID, Name: "Dr Watson", Role: rbac.RoleDoctor},
		}}
		svc := appointment.NewService(memory.New(), directory, audit.NewRecorder(f.auditStore, logger), logger,
			appointment.WithTxRunner(&failingRunner{}))

		_, err := svc.Create(f.patientCtx(), f.doctorID, f.now.Add(time.Hour))

		require.Error(t, err)
	})
}

type spyRunner struct {
	calls int
}

func (r *spyRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

type failingRunner struct{}

func (failingRunner) InTx(context.Context, func(ctx context.Context) error) error {
	return dErrors.Database(errors.New("begin transaction: connection reset"))
}

func TestUpcoming(t *testing.T) {
	t.Run("patient sees only own future appointments sorted by date", func(t *testing.T) {
		f := newFixture(t)

		later, err := f.service.Create(f.patientCtx(), f.doctorID, f.now.Add(72*time.Hour))
		require.NoError(t, err)
		sooner, err := f.service.Create(f.patientCtx(), f.doctorID, f.now.Add(24*time.Hour))
		require.NoError(t, err)

		// Another patient's booking must not appear.
		otherCtx := requestcontext.WithPrincipal(context.Background(), &rbac.Principal{
			SubjectID: domain.NewUserID(),
			Role:      rbac.RolePatient,
		})
		otherCtx = requestcontext.WithTime(otherCtx, f.now)
		_, err = f.service.Create(otherCtx, f.doctorID, f.now.Add(36*time.Hour))
		require.NoError(t, err)

		appts, err := f.service.UpcomingForPatient(f.patientCtx())

		require.NoError(t, err)
		require.Len(t, appts, 2)
		assert.Equal(t, sooner.ID, appts[0].ID)
		assert.Equal(t, later.ID, appts[1].ID)
	})

	t.Run("doctor sees all assigned bookings", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Create(f.patientCtx(), f.doctorID, f.now.Add(24*time.Hour))
		require.NoError(t, err)

		appts, err := f.service.UpcomingForDoctor(f.doctorCtx())

		require.NoError(t, err)
		assert.Len(t, appts, 1)

		entries, err := f.auditStore.ListRecent(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, audit.ActionAppointmentsViewed, entries[0].Action)
	})

	t.Run("patient cannot use the doctor view", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.UpcomingForDoctor(f.patientCtx())

		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		f := newFixture(t)

		appts, err := f.service.UpcomingForPatient(f.patientCtx())

		require.NoError(t, err)
		assert.Empty(t, appts)
	})

	t.Run("capped at twenty rows", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 25; i++ {
			_, err := f.service.Create(f.patientCtx(), f.doctorID, f.now.Add(time.Duration(i+1)*time.Hour))
			require.NoError(t, err)
		}

		appts, err := f.service.UpcomingForPatient(f.patientCtx())

		require.NoError(t, err)
		assert.Len(t, appts, 20)
	})
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	appt, err := f.service.Create(f.patientCtx(), f.doctorID, f.now.Add(time.Hour))
	require.NoError(t, err)

	found, err := f.service.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, found.ID)

	_, err = f.service.GetByID(context.Background(), domain.NewAppointmentID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
