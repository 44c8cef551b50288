package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/formwork/pkg/domain"
)

// Loader implements ports.ContentLoader using an in-memory map.
// Content is served as given and must not be mutated afterwards.
type Loader struct {
	mu    sync.RWMutex
	forms map[string][]domain.Content
}

// NewLoader creates a new Loader serving the provided forms.
func NewLoader(forms map[string][]domain.Content) *Loader {
	l := &Loader{forms: make(map[string][]domain.Content, len(forms))}
	for id, content := range forms {
		l.forms[id] = content
	}
	return l
}

// Put adds or replaces a form.
func (l *Loader) Put(formID string, content []domain.Content) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.forms[formID] = content
}

// Load returns the content of a form.
func (l *Loader) Load(ctx context.Context, formID string) ([]domain.Content, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	content, ok := l.forms[formID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFormNotFound, formID)
	}
	return content, nil
}

// List returns all available form IDs.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.forms))
	for k := range l.forms {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
