package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect/pkg/domain"
	dErrors "mediconnect/pkg/domain-errors"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"PATIENT", RolePatient, false},
		{"DOCTOR", RoleDoctor, false},
		{"patient", "", true},
		{"ADMIN", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorize(t *testing.T) {
	patient := &Principal{SubjectID: domain.NewUserID(), Role: RolePatient}
	doctor := &Principal{SubjectID: domain.NewUserID(), Role: RoleDoctor}

	t.Run("allows role in set", func(t *testing.T) {
		assert.NoError(t, Authorize(patient, RolePatient))
		assert.NoError(t, Authorize(doctor, RolePatient, RoleDoctor))
	})

	t.Run("denies role outside set", func(t *testing.T) {
		err := Authorize(doctor, RolePatient)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("missing principal is unauthenticated, not forbidden", func(t *testing.T) {
		err := Authorize(nil, RolePatient, RoleDoctor)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unknown role in principal is denied", func(t *testing.T) {
		stale := &Principal{SubjectID: domain.NewUserID(), Role: Role("NURSE")}
		err := Authorize(stale, RolePatient, RoleDoctor)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("empty allowed set denies everyone", func(t *testing.T) {
		err := Authorize(patient)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

// Exhaustive allow/deny table over all (role, allowed-set) pairs.
func TestAuthorizeMatrix(t *testing.T) {
	roles := []Role{RolePatient, RoleDoctor}
	sets := [][]Role{
		{RolePatient},
		{RoleDoctor},
		{RolePatient, RoleDoctor},
	}

	for _, role := range roles {
		for _, allowed := range sets {
			p := &Principal{SubjectID: domain.NewUserID(), Role: role}
			err := Authorize(p, allowed...)

			inSet := false
			for _, a := range allowed {
				if a == role {
					inSet = true
				}
			}

			if inSet {
				assert.NoError(t, err, "role %s should pass set %v", role, allowed)
			} else {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden),
					"role %s should be forbidden for set %v", role, allowed)
			}
		}
	}
}
