package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect/internal/account"
	accountmemory "mediconnect/internal/account/store/memory"
	"mediconnect/internal/account/store/revocation"
	"mediconnect/internal/rbac"
	"mediconnect/internal/token"
	dErrors "mediconnect/pkg/domain-errors"
	"mediconnect/pkg/platform/audit"
	auditmemory "mediconnect/pkg/platform/audit/store/memory"
	"mediconnect/pkg/requestcontext"
)

type fixture struct {
	service    *account.Service
	auditStore *auditmemory.InMemoryStore
	tokens     *token.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditStore := auditmemory.NewInMemoryStore()
	recorder := audit.NewRecorder(auditStore, logger)
	tokens := token.NewService("test-signing-key", "mediconnect-test", time.Hour)
	service := account.NewService(
		accountmemory.New(),
		revocation.NewMemoryList(),
		tokens,
		recorder,
		nil,
		logger,
	)
	return &fixture{service: service, auditStore: auditStore, tokens: tokens}
}

func validPatient() account.RegisterInput {
	return account.RegisterInput{
		Name:     "Ada Example",
		Email:    "ada@example.com",
		Password: "correct-horse-battery",
		Role:     rbac.RolePatient,
	}
}

func validDoctor() account.RegisterInput {
	return account.RegisterInput{
		Name:           "Dr Gregory House",
		Email:          "house@example.com",
		Password:       "not-lupus-ever",
		Role:           rbac.RoleDoctor,
		Specialization: "Diagnostics",
	}
}

func lastAudit(t *testing.T, store *auditmemory.InMemoryStore) audit.Entry {
	t.Helper()
	entries, err := store.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	return entries[0]
}

func TestRegister(t *testing.T) {
	t.Run("patient", func(t *testing.T) {
		f := newFixture(t)

		profile, err := f.service.Register(context.Background(), validPatient())

		require.NoError(t, err)
		assert.False(t, profile.ID.IsNil())
		assert.Equal(t, rbac.RolePatient, profile.Role)
		assert.Empty(t, profile.Specialization)

		entry := lastAudit(t, f.auditStore)
		assert.Equal(t, audit.ActionUserRegistered, entry.Action)
		assert.Equal(t, profile.ID, entry.ActorID)
	})

	t.Run("doctor requires specialization", func(t *testing.T) {
		f := newFixture(t)
		input := validDoctor()
		input.Specialization = ""

		_, err := f.service.Register(context.Background(), input)

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("patient must not declare specialization", func(t *testing.T) {
		f := newFixture(t)
		input := validPatient()
		input.Specialization = "Cardiology"

		_, err := f.service.Register(context.Background(), input)

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Register(context.Background(), validPatient())
		require.NoError(t, err)

		duplicate := validPatient()
		duplicate.Name = "Someone Else"
		_, err = f.service.Register(context.Background(), duplicate)

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyExists))
		// The message never echoes the submitted email.
		assert.NotContains(t, err.Error(), "ada@example.com")
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		input := validPatient()
		input.Password = ""

		_, err := f.service.Register(context.Background(), input)

		assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingField))
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		f := newFixture(t)
		input := validPatient()
		_, err := f.service.Register(context.Background(), input)
		require.NoError(t, err)

		result, err := f.service.Login(context.Background(), "ADA@Example.com", input.Password)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success issues a verifiable token", func(t *testing.T) {
		f := newFixture(t)
		input := validDoctor()
		profile, err := f.service.Register(context.Background(), input)
		require.NoError(t, err)

		result, err := f.service.Login(context.Background(), input.Email, input.Password)

		require.NoError(t, err)
		assert.Equal(t, 3600, result.ExpiresIn)

		principal, _, err := f.tokens.Verify(result.Token)
		require.NoError(t, err)
		assert.Equal(t, profile.ID, principal.SubjectID)
		assert.Equal(t, rbac.RoleDoctor, principal.Role)

		entry := lastAudit(t, f.auditStore)
		assert.Equal(t, audit.ActionUserLoggedIn, entry.Action)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		input := validPatient()
		_, err := f.service.Register(context.Background(), input)
		require.NoError(t, err)

		_, err = f.service.Login(context.Background(), input.Email, "wrong-password")

		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
		assert.Equal(t, "Invalid email or password", dErrors.MessageOf(err))
	})

	t.Run("unknown account is indistinguishable from wrong password", func(t *testing.T) {
		f := newFixture(t)

		_, unknownErr := f.service.Login(context.Background(), "nobody@example.com", "whatever1")

		require.Error(t, unknownErr)
		assert.True(t, dErrors.HasCode(unknownErr, dErrors.CodeInvalidCredentials))
		assert.NotContains(t, unknownErr.Error(), "nobody@example.com")
	})

	t.Run("failed login records no audit entry", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Login(context.Background(), "nobody@example.com", "whatever1")
		require.Error(t, err)

		assert.Zero(t, f.auditStore.Len())
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes the current token", func(t *testing.T) {
		f := newFixture(t)
		input := validPatient()
		profile, err := f.service.Register(context.Background(), input)
		require.NoError(t, err)

		result, err := f.service.Login(context.Background(), input.Email, input.Password)
		require.NoError(t, err)

		principal, jti, err := f.tokens.Verify(result.Token)
		require.NoError(t, err)

		ctx := requestcontext.WithPrincipal(context.Background(), principal)
		ctx = requestcontext.WithTokenID(ctx, jti)
		require.NoError(t, f.service.Logout(ctx))

		entry := lastAudit(t, f.auditStore)
		assert.Equal(t, audit.ActionUserLoggedOut, entry.Action)
		assert.Equal(t, profile.ID, entry.ActorID)
	})

	t.Run("anonymous logout is unauthorized", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.Logout(context.Background())

		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestListDoctors(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Register(context.Background(), validPatient())
	require.NoError(t, err)
	docProfile, err := f.service.Register(context.Background(), validDoctor())
	require.NoError(t, err)

	principal := &rbac.Principal{SubjectID: docProfile.ID, Role: rbac.RolePatient}
	ctx := requestcontext.WithPrincipal(context.Background(), principal)

	doctors, err := f.service.ListDoctors(ctx)

	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr Gregory House", doctors[0].Name)
	assert.Equal(t, "Diagnostics", doctors[0].Specialization)

	entry := lastAudit(t, f.auditStore)
	assert.Equal(t, audit.ActionDoctorsViewed, entry.Action)
}

func TestGetDoctor(t *testing.T) {
	f := newFixture(t)
	patient, err := f.service.Register(context.Background(), validPatient())
	require.NoError(t, err)
	doctor, err := f.service.Register(context.Background(), validDoctor())
	require.NoError(t, err)

	t.Run("doctor found", func(t *testing.T) {
		user, err := f.service.GetDoctor(context.Background(), doctor.ID)
		require.NoError(t, err)
		assert.Equal(t, rbac.RoleDoctor, user.Role)
	})

	t.Run("patient id is not a doctor", func(t *testing.T) {
		_, err := f.service.GetDoctor(context.Background(), patient.ID)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestRevocationMemoryList(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	list := revocation.NewMemoryList(revocation.WithClock(clock))
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-other")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entries expire with the token they block")
}
