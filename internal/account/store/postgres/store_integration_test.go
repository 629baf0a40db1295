//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect/internal/account"
	"mediconnect/internal/account/store/postgres"
	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
	"mediconnect/pkg/platform/sentinel"
	"mediconnect/pkg/testutil/containers"
)

func newUser(role rbac.Role, email string) *account.User {
	u := &account.User{
		ID:           domain.NewUserID(),
		Name:         "Integration User",
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake",
		Role:         role,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	if role == rbac.RoleDoctor {
		u.Specialization = "Cardiology"
	}
	return u
}

func TestAccountStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := postgres.New(pg.DB)
	ctx := context.Background()

	t.Run("create and fetch by id and email", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		user := newUser(rbac.RolePatient, "patient@example.com")
		require.NoError(t, store.Create(ctx, user))

		byID, err := store.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)
		assert.Equal(t, rbac.RolePatient, byID.Role)
		assert.Empty(t, byID.Specialization)

		byEmail, err := store.GetByEmail(ctx, "PATIENT@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		require.NoError(t, store.Create(ctx, newUser(rbac.RolePatient, "dupe@example.com")))

		err := store.Create(ctx, newUser(rbac.RolePatient, "Dupe@Example.com"))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, domain.NewUserID())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list doctors sorted by name", func(t *testing.T) {
		require.NoError(t, pg.Truncate(ctx))
		zed := newUser(rbac.RoleDoctor, "zed@example.com")
		zed.Name = "Zed"
		abe := newUser(rbac.RoleDoctor, "abe@example.com")
		abe.Name = "Abe"
		require.NoError(t, store.Create(ctx, zed))
		require.NoError(t, store.Create(ctx, abe))
		require.NoError(t, store.Create(ctx, newUser(rbac.RolePatient, "pt@example.com")))

		doctors, err := store.ListDoctors(ctx)
		require.NoError(t, err)
		require.Len(t, doctors, 2)
		assert.Equal(t, "Abe", doctors[0].Name)
		assert.Equal(t, "Zed", doctors[1].Name)
	})
}
