package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mediconnect/pkg/domain"
	"mediconnect/pkg/platform/audit"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func entryFor(actor domain.UserID, action audit.Action, at time.Time) audit.Entry {
	return audit.Entry{
		ActorID:   actor,
		ActorRole: "PATIENT",
		Action:    action,
		Timestamp: at,
	}
}

func (s *InMemoryStoreSuite) TestAppendAndListByActor() {
	ctx := context.Background()
	actor := domain.NewUserID()
	other := domain.NewUserID()
	now := time.Now()

	s.Require().NoError(s.store.Append(ctx, entryFor(actor, audit.ActionUserLoggedIn, now)))
	s.Require().NoError(s.store.Append(ctx, entryFor(other, audit.ActionUserLoggedIn, now)))
	s.Require().NoError(s.store.Append(ctx, entryFor(actor, audit.ActionAppointmentCreated, now.Add(time.Second))))

	entries, err := s.store.ListByActor(ctx, actor)
	s.Require().NoError(err)
	s.Len(entries, 2)
	s.Equal(audit.ActionUserLoggedIn, entries[0].Action)
	s.Equal(audit.ActionAppointmentCreated, entries[1].Action)
}

func (s *InMemoryStoreSuite) TestListRecentOrdersAndLimits() {
	ctx := context.Background()
	actor := domain.NewUserID()
	base := time.Now()

	for i := 0; i < 5; i++ {
		entry := entryFor(actor, audit.ActionNotesViewed, base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.store.Append(ctx, entry))
	}

	recent, err := s.store.ListRecent(ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(recent, 3)
	s.True(recent[0].Timestamp.After(recent[1].Timestamp))
	s.True(recent[1].Timestamp.After(recent[2].Timestamp))
}

// Concurrent appends must not lose entries.
func (s *InMemoryStoreSuite) TestConcurrentAppends() {
	ctx := context.Background()
	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actor := domain.NewUserID()
			for j := 0; j < perGoroutine; j++ {
				_ = s.store.Append(ctx, entryFor(actor, audit.ActionNotesViewed, time.Now()))
			}
		}()
	}
	wg.Wait()

	s.Equal(goroutines*perGoroutine, s.store.Len())
}
