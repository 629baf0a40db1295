// Package memory provides an in-memory appointment store for tests and
// local development. Safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"mediconnect/internal/appointment"
	"mediconnect/pkg/domain"
	"mediconnect/pkg/platform/sentinel"
)

type Store struct {
	mu   sync.RWMutex
	byID map[domain.AppointmentID]*appointment.Appointment
}

func New() *Store {
	return &Store{byID: make(map[domain.AppointmentID]*appointment.Appointment)}
}

func (s *Store) Create(_ context.Context, appt *appointment.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[appt.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *appt
	s.byID[appt.ID] = &copied
	return nil
}

func (s *Store) GetByID(_ context.Context, id domain.AppointmentID) (*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

func (s *Store) UpcomingForPatient(_ context.Context, patientID domain.UserID, from time.Time, limit int) ([]*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.upcoming(func(a *appointment.Appointment) bool { return a.PatientID == patientID }, from, limit), nil
}

func (s *Store) UpcomingForDoctor(_ context.Context, doctorID domain.UserID, from time.Time, limit int) ([]*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.upcoming(func(a *appointment.Appointment) bool { return a.DoctorID == doctorID }, from, limit), nil
}

func (s *Store) upcoming(match func(*appointment.Appointment) bool, from time.Time, limit int) []*appointment.Appointment {
	var appts []*appointment.Appointment
	for _, appt := range s.byID {
		if match(appt) && !appt.Date.Before(from) {
			copied := *appt
			appts = append(appts, &copied)
		}
	}
	sort.Slice(appts, func(i, j int) bool { return appts[i].Date.Before(appts[j].Date) })
	if limit > 0 && len(appts) > limit {
		appts = appts[:limit]
	}
	return appts
}
