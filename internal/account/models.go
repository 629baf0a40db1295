// Package account implements registration, login, logout, and the doctor
// directory. Passwords are bcrypt-hashed at rest; issued tokens can be
// revoked ahead of expiry through the revocation list.
package account

import (
	"time"

	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
)

// User is a registered account. PasswordHash is the bcrypt digest and
// never leaves the service layer. Specialization is set for doctors only.
type User struct {
	ID             domain.UserID
	Name           string
	Email          string
	PasswordHash   string
	Role           rbac.Role
	Specialization string
	CreatedAt      time.Time
}

// Profile is the client-facing projection of a User. No credential
// material and no raw email-derived fields beyond the email itself.
type Profile struct {
	ID             domain.UserID `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Role           rbac.Role     `json:"role"`
	Specialization string        `json:"specialization,omitempty"`
}

// Doctor is the directory listing shape: enough to pick a doctor when
// booking, nothing more.
type Doctor struct {
	ID             domain.UserID `json:"id"`
	Name           string        `json:"name"`
	Specialization string        `json:"specialization"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Specialization: u.Specialization,
	}
}

func (u *User) Doctor() Doctor {
	return Doctor{
		ID:             u.ID,
		Name:           u.Name,
		Specialization: u.Specialization,
	}
}
