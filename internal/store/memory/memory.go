// Package memory holds the in-process appointment store. It is the default
// backing for the booking engine; deployments needing durability switch to the
// postgres store through configuration.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/optivue/scheduling/internal/domain/appointment"
)

// Store keeps appointments keyed by id behind a read-write mutex. All reads
// return copies so callers can never alias the stored records.
type Store struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*appointment.Appointment
	seq  int64
}

func NewStore() *Store {
	return &Store{byID: make(map[uuid.UUID]*appointment.Appointment)}
}

func (s *Store) Insert(_ context.Context, a *appointment.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[a.ID]; ok {
		return appointment.ErrDuplicateAppointmentID
	}

	s.seq++
	a.Number = fmt.Sprintf("APT-%04d", s.seq)

	stored := *a
	s.byID[a.ID] = &stored
	return nil
}

func (s *Store) Replace(_ context.Context, a *appointment.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}

	stored := *a
	s.byID[a.ID] = &stored
	return nil
}

func (s *Store) Remove(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	out := *a
	return &out, nil
}

func (s *Store) ListAll(_ context.Context) ([]*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snapshot(func(*appointment.Appointment) bool { return true })
	sortAscending(out)
	return out, nil
}

func (s *Store) ListByPatient(_ context.Context, patientID string) ([]*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snapshot(func(a *appointment.Appointment) bool {
		return a.PatientID == patientID
	})
	// Most recent first for patient history views.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

func (s *Store) ListByDate(_ context.Context, date, practitionerID string) ([]*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snapshot(func(a *appointment.Appointment) bool {
		if a.Date != date {
			return false
		}
		return practitionerID == "" || a.Practitioner.ID == practitionerID
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (s *Store) ListUpcoming(_ context.Context, fromDate string, limit int) ([]*appointment.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snapshot(func(a *appointment.Appointment) bool {
		if a.Date < fromDate {
			return false
		}
		return a.Status == appointment.StatusScheduled || a.Status == appointment.StatusConfirmed
	})
	sortAscending(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// snapshot copies every matching record; the caller must hold at least a read
// lock.
func (s *Store) snapshot(match func(*appointment.Appointment) bool) []*appointment.Appointment {
	out := make([]*appointment.Appointment, 0, len(s.byID))
	for _, a := range s.byID {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

// ISO dates and zero-padded HH:MM sort correctly as strings.
func sortAscending(appts []*appointment.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		return appts[i].Time < appts[j].Time
	})
}
