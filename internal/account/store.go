package account

import (
	"context"
	"time"

	"mediconnect/pkg/domain"
)

// Store persists user accounts. Implementations return sentinel errors
// (sentinel.ErrNotFound, sentinel.ErrConflict) which the service translates
// into domain errors.
type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id domain.UserID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListDoctors(ctx context.Context) ([]*User, error)
}

// RevocationList tracks token IDs invalidated before their natural expiry.
// Entries only need to live as long as the token would have.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
