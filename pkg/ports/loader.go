package ports

import (
	"context"

	"github.com/aretw0/formwork/pkg/domain"
)

// ContentLoader defines how forms retrieve their content trees.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type ContentLoader interface {
	// Load returns the ordered content of a form.
	// Returns domain.ErrFormNotFound if the form does not exist.
	Load(ctx context.Context, formID string) ([]domain.Content, error)

	// List returns the IDs of every form the loader knows, sorted.
	// This is used for introspection tools (e.g. 'formwork inspect').
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the ID of each form whose content changed.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan string, error)
}
