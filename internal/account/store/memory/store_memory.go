// Package memory provides an in-memory account store for tests and local
// development. Safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"mediconnect/internal/account"
	"mediconnect/internal/rbac"
	"mediconnect/pkg/domain"
	"mediconnect/pkg/platform/sentinel"
)

type Store struct {
	mu      sync.RWMutex
	byID    map[domain.UserID]*account.User
	byEmail map[string]domain.UserID
}

func New() *Store {
	return &Store{
		byID:    make(map[domain.UserID]*account.User),
		byEmail: make(map[string]domain.UserID),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) Create(_ context.Context, user *account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byID[user.ID]; exists {
		return sentinel.ErrConflict
	}

	copied := *user
	s.byID[user.ID] = &copied
	s.byEmail[email] = user.ID
	return nil
}

func (s *Store) GetByID(_ context.Context, id domain.UserID) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[id]
	return &copied, nil
}

func (s *Store) ListDoctors(_ context.Context) ([]*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doctors []*account.User
	for _, user := range s.byID {
		if user.Role == rbac.RoleDoctor {
			copied := *user
			doctors = append(doctors, &copied)
		}
	}
	sort.Slice(doctors, func(i, j int) bool {
		return doctors[i].Name < doctors[j].Name
	})
	return doctors, nil
}
