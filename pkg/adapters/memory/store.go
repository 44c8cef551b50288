package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/formwork/pkg/domain"
)

type draftKey struct {
	formID    string
	sessionID string
}

// Store implements ports.DraftStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[draftKey]*domain.Draft
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[draftKey]*domain.Draft),
	}
}

// Save persists a copy of the draft.
func (s *Store) Save(ctx context.Context, draft *domain.Draft) error {
	copied := draft.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[draftKey{draft.FormID, draft.SessionID}] = copied
	return nil
}

// Load retrieves a copy of the draft, so callers can't mutate the store by pointer.
func (s *Store) Load(ctx context.Context, formID, sessionID string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.data[draftKey{formID, sessionID}]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return draft.Clone(), nil
}

// Delete removes the draft.
func (s *Store) Delete(ctx context.Context, formID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, draftKey{formID, sessionID})
	return nil
}

// List returns the sessions holding a draft of formID.
func (s *Store) List(ctx context.Context, formID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0)
	for k := range s.data {
		if k.formID == formID {
			sessions = append(sessions, k.sessionID)
		}
	}
	sort.Strings(sessions)
	return sessions, nil
}
