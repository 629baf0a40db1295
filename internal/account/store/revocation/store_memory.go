// Package revocation tracks token IDs invalidated by logout. A revoked
// entry only needs to outlive the token it blocks, so both backends expire
// entries after the supplied TTL.
package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryList is the single-process revocation list used in tests and local
// development. Expired entries are pruned lazily on each operation.
type MemoryList struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

type MemoryOption func(*MemoryList)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryList) { l.now = now }
}

func NewMemoryList(opts ...MemoryOption) *MemoryList {
	l := &MemoryList{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryList) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	l.expires[tokenID] = l.now().Add(ttl)
	return nil
}

func (l *MemoryList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	_, revoked := l.expires[tokenID]
	return revoked, nil
}

func (l *MemoryList) prune() {
	now := l.now()
	for tokenID, expiry := range l.expires {
		if expiry.Before(now) {
			delete(l.expires, tokenID)
		}
	}
}
