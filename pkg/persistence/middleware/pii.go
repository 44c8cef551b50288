package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
)

// Mask replaces the values of masked keys.
const Mask = "***"

type piiMiddleware struct {
	next     ports.DraftStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the values of keys
// matching any of the patterns, at any depth, before they reach the store.
// Masking is one-way: loaded drafts hold Mask where a value was.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.DraftStore) ports.DraftStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, draft *domain.Draft) error {
	cloned := draft.Clone()
	maskMap(cloned.Values, m.patterns)
	return m.next.Save(ctx, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, formID, sessionID string) (*domain.Draft, error) {
	return m.next.Load(ctx, formID, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, formID, sessionID string) error {
	return m.next.Delete(ctx, formID, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context, formID string) ([]string, error) {
	return m.next.List(ctx, formID)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}
		if masked {
			continue
		}
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
