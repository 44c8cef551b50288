package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/formwork/internal/compiler"
	"github.com/aretw0/formwork/pkg/domain"
)

// Loader implements ports.ContentLoader over a directory of YAML and JSON
// files. The form ID is the file name without its extension.
type Loader struct {
	Dir    string
	parser *compiler.Parser
}

// NewLoader creates a loader reading from dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, parser: compiler.NewParser()}
}

// Load parses the definition of formID.
func (l *Loader) Load(ctx context.Context, formID string) ([]domain.Content, error) {
	path, format, err := l.find(formID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form %s: %w", formID, err)
	}
	doc, err := l.parser.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", formID, err)
	}
	return doc.Controls, nil
}

func (l *Loader) find(formID string) (string, compiler.Format, error) {
	if formID == "" || strings.ContainsAny(formID, `/\`) {
		return "", "", fmt.Errorf("%w: %q", domain.ErrFormNotFound, formID)
	}
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(l.Dir, formID+ext)
		if _, err := os.Stat(path); err == nil {
			format, _ := compiler.FormatOf(path)
			return path, format, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", domain.ErrFormNotFound, formID)
}

// List returns the IDs of every definition in the directory.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if _, ok := compiler.FormatOf(name); !ok {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: form '%s' is defined in both '%s' and '%s'", id, existing, name)
		}
		seen[id] = name
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
