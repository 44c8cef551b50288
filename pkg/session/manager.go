package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates draft access, serializing every operation on the
// same form and session. It uses reference counting to garbage collect
// unused locks.
type Manager struct {
	store ports.DraftStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock lives if never released.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new session manager with the given draft store.
func NewManager(store ports.DraftStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func lockKey(formID, sessionID string) string {
	return formID + "/" + sessionID
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Load retrieves an existing draft.
func (m *Manager) Load(ctx context.Context, formID, sessionID string) (*domain.Draft, error) {
	var draft *domain.Draft
	err := m.WithLock(ctx, formID, sessionID, func(ctx context.Context) error {
		var err error
		draft, err = m.store.Load(ctx, formID, sessionID)
		return err
	})
	return draft, err
}

// LoadOrStart loads a draft, or creates and persists one holding initial
// when there is none.
func (m *Manager) LoadOrStart(ctx context.Context, formID, sessionID string, initial map[string]any) (*domain.Draft, error) {
	var draft *domain.Draft
	err := m.WithLock(ctx, formID, sessionID, func(ctx context.Context) error {
		var (
			found bool
			err   error
		)
		draft, found, err = m.loadOrNew(ctx, formID, sessionID, initial)
		if err != nil || found {
			return err
		}
		draft.Version = 1
		if err := m.store.Save(ctx, draft); err != nil {
			return fmt.Errorf("failed to initialize draft: %w", err)
		}
		return nil
	})
	return draft, err
}

// Update runs a read-modify-write cycle on a draft under the session lock.
// fn receives the stored draft, or a new one holding initial; the result
// is saved with its version bumped.
func (m *Manager) Update(ctx context.Context, formID, sessionID string, initial map[string]any, fn func(*domain.Draft) error) (*domain.Draft, error) {
	var draft *domain.Draft
	err := m.WithLock(ctx, formID, sessionID, func(ctx context.Context) error {
		var err error
		draft, _, err = m.loadOrNew(ctx, formID, sessionID, initial)
		if err != nil {
			return err
		}
		if err := fn(draft); err != nil {
			return err
		}
		draft.Version++
		draft.UpdatedAt = m.now()
		return m.store.Save(ctx, draft)
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func (m *Manager) loadOrNew(ctx context.Context, formID, sessionID string, initial map[string]any) (*domain.Draft, bool, error) {
	draft, err := m.store.Load(ctx, formID, sessionID)
	if err == nil {
		return draft, true, nil
	}
	if !errors.Is(err, domain.ErrDraftNotFound) {
		return nil, false, fmt.Errorf("failed to check draft existence: %w", err)
	}
	draft = domain.NewDraft(sessionID, formID)
	if initial != nil {
		draft.Values = domain.CloneValues(initial)
	}
	draft.UpdatedAt = m.now()
	return draft, false, nil
}

// Save persists a draft as given.
func (m *Manager) Save(ctx context.Context, draft *domain.Draft) error {
	return m.WithLock(ctx, draft.FormID, draft.SessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, draft)
	})
}

// Delete removes a draft from the store.
func (m *Manager) Delete(ctx context.Context, formID, sessionID string) error {
	return m.WithLock(ctx, formID, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, formID, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context, formID string) ([]string, error) {
	return m.store.List(ctx, formID)
}

// Store returns the underlying draft store.
func (m *Manager) Store() ports.DraftStore {
	return m.store
}

// WithLock executes a function while holding the lock for a form session.
func (m *Manager) WithLock(ctx context.Context, formID, sessionID string, fn func(context.Context) error) error {
	key := lockKey(formID, sessionID)
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"form_id", formID,
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
