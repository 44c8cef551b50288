package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/formwork/internal/compiler"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts the Loam library to the formwork ContentLoader interface.
// Each document is a form; its body is ignored.
type Loader struct {
	Repo   *loam.TypedRepository[FormMetadata]
	parser *compiler.Parser
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[FormMetadata]) *Loader {
	return &Loader{
		Repo:   repo,
		parser: compiler.NewParser(),
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[FormMetadata](repo)), nil
}

// Load retrieves a form document and decodes its controls, resolving
// fragment imports.
func (l *Loader) Load(ctx context.Context, formID string) ([]domain.Content, error) {
	doc, err := l.Repo.Get(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFormNotFound, formID, err)
	}

	id := trimExtension(formID)
	raw, err := l.resolveControls(ctx, doc.Data.Controls, map[string]bool{id: true})
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", id, err)
	}
	content, err := l.parser.DecodeContent(raw)
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", id, err)
	}
	return content, nil
}

// resolveControls replaces string entries with the controls of the
// referenced document, recursively.
func (l *Loader) resolveControls(ctx context.Context, controls []any, visited map[string]bool) ([]any, error) {
	out := make([]any, 0, len(controls))
	for _, item := range controls {
		ref, ok := item.(string)
		if !ok {
			out = append(out, item)
			continue
		}

		refID := trimExtension(ref)
		if visited[refID] {
			return nil, fmt.Errorf("cycle detected in fragment imports: %s", refID)
		}

		// DFS Cycle Detection: Mark
		visited[refID] = true

		doc, err := l.Repo.Get(ctx, refID)
		if err != nil {
			return nil, fmt.Errorf("failed to load fragment '%s': %w", refID, err)
		}
		imported, err := l.resolveControls(ctx, doc.Data.Controls, visited)

		// DFS Cycle Detection: Unmark (backtrack)
		delete(visited, refID)

		if err != nil {
			return nil, err
		}
		out = append(out, imported...)
	}
	return out, nil
}

// List lists all forms in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Title returns the title declared by a form document.
func (l *Loader) Title(ctx context.Context, formID string) (string, error) {
	doc, err := l.Repo.Get(ctx, formID)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrFormNotFound, formID, err)
	}
	return doc.Data.Title, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable. It emits the ID of each changed form.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
