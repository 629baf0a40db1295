// Package postgres implements the account store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"mediconnect/internal/account"
	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
	"mediconnect/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, user *account.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, specialization, created_at)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7)
	`

	var specialization *string
	if user.Specialization != "" {
		specialization = &user.Specialization
	}

	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(user.ID),
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		specialization,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id domain.UserID) (*account.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, specialization, created_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, specialization, created_at
		FROM users
		WHERE email = lower($1)
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) ListDoctors(ctx context.Context) ([]*account.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, specialization, created_at
		FROM users
		WHERE role = $1
		ORDER BY name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, string(rbac.RoleDoctor))
	if err != nil {
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*account.User
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, user)
	}
	return doctors, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanUser(row rowScanner) (*account.User, error) {
	var (
		user           account.User
		id             uuid.UUID
		role           string
		specialization sql.NullString
	)
	err := row.Scan(&id, &user.Name, &user.Email, &user.PasswordHash, &role, &specialization, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.ID = domain.UserID(id)
	user.Role = rbac.Role(role)
	if specialization.Valid {
		user.Specialization = specialization.String
	}
	return &user, nil
}
