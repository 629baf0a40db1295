// Package memory provides an in-memory note store for tests and local
// development. Safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"

	"mediconnect/internal/note"
	"mediconnect/pkg/domain"
	"mediconnect/pkg/platform/sentinel"
)

type Store struct {
	mu   sync.RWMutex
	byID map[domain.NoteID]*note.Note
}

func New() *Store {
	return &Store{byID: make(map[domain.NoteID]*note.Note)}
}

func (s *Store) Create(_ context.Context, n *note.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[n.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *n
	s.byID[n.ID] = &copied
	return nil
}

func (s *Store) ListByAppointment(_ context.Context, appointmentID domain.AppointmentID) ([]*note.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(n *note.Note) bool { return n.AppointmentID == appointmentID }), nil
}

func (s *Store) ListByDoctorAndPatient(_ context.Context, doctorID, patientID domain.UserID) ([]*note.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(n *note.Note) bool {
		return n.DoctorID == doctorID && n.PatientID == patientID
	}), nil
}

func (s *Store) list(match func(*note.Note) bool) []*note.Note {
	var notes []*note.Note
	for _, n := range s.byID {
		if match(n) {
			copied := *n
			notes = append(notes, &copied)
		}
	}
	// Newest first.
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes
}

// Len reports the number of stored notes. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
