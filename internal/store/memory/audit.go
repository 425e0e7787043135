package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/optivue/scheduling/internal/domain/audit"
)

// AuditStore is the in-process audit sink paired with Store.
type AuditStore struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Create(_ context.Context, entry *audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Entries returns a copy of the recorded trail, oldest first.
func (s *AuditStore) Entries() []audit.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]audit.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
