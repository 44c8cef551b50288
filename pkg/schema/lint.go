package schema

import (
	"fmt"
	"strings"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/expr"
)

// LintOption enables an optional check of Lint.
type LintOption func(*linter)

type linter struct {
	parser         expr.Parser
	validatorKnown func(string) bool
	asyncKnown     func(string) bool
	componentKnown func(string) bool
	extraSchema    func(string) (Schema, bool)
	errs           []error
}

// WithParser checks that every rule parses.
func WithParser(p expr.Parser) LintOption {
	return func(l *linter) { l.parser = p }
}

// WithValidatorKeys checks validator keys against known.
func WithValidatorKeys(known func(key string) bool) LintOption {
	return func(l *linter) { l.validatorKnown = known }
}

// WithAsyncValidatorKeys checks async validator keys against known.
func WithAsyncValidatorKeys(known func(key string) bool) LintOption {
	return func(l *linter) { l.asyncKnown = known }
}

// WithComponentTypes checks node types against known. Groups without a type
// are accepted.
func WithComponentTypes(known func(typ string) bool) LintOption {
	return func(l *linter) { l.componentKnown = known }
}

// WithExtraSchemas checks the extra fields of each control against the
// schema registered for its type.
func WithExtraSchemas(lookup func(typ string) (Schema, bool)) LintOption {
	return func(l *linter) { l.extraSchema = lookup }
}

// Lint reports every problem found in a content tree as an *AggregateError.
// It always checks for nil nodes, empty, dotted or duplicate sibling ids and
// unknown strategies; the options add the checks that need collaborators.
func Lint(content []domain.Content, opts ...LintOption) error {
	l := &linter{}
	for _, opt := range opts {
		opt(l)
	}
	l.siblings("", content)
	return aggregate(l.errs)
}

func (l *linter) fail(path, reason string, value any) {
	l.errs = append(l.errs, &ValidationError{Key: path, Reason: reason, Value: value})
}

func (l *linter) siblings(prefix string, content []domain.Content) {
	seen := make(map[string]bool, len(content))
	for i, c := range content {
		if c == nil {
			l.fail(domain.JoinPath(prefix, fmt.Sprintf("[%d]", i)), "nil content", nil)
			continue
		}
		b := c.Common()
		path := domain.JoinPath(prefix, b.ID)
		switch {
		case b.ID == "":
			path = domain.JoinPath(prefix, fmt.Sprintf("[%d]", i))
			l.fail(path, "id is required", nil)
		case strings.Contains(b.ID, "."):
			l.fail(path, "id must not contain '.'", nil)
		case seen[b.ID]:
			l.fail(path, "duplicate id", nil)
		}
		seen[b.ID] = true
		l.node(path, c)
		if g, ok := c.(*domain.Group); ok {
			l.siblings(path, g.Controls)
		}
	}
}

func (l *linter) node(path string, c domain.Content) {
	b := c.Common()
	if !b.HideStrategy.Valid() {
		l.fail(path, "unknown hideStrategy", b.HideStrategy)
	}
	if !b.ValueStrategy.Valid() {
		l.fail(path, "unknown valueStrategy", b.ValueStrategy)
	}
	if !b.UpdateOn.Valid() {
		l.fail(path, "unknown updateOn", b.UpdateOn)
	}

	if l.parser != nil {
		for _, r := range []struct {
			field  string
			source domain.Expression
		}{{"hide", b.Hide}, {"disabled", b.Disabled}, {"readonly", b.Readonly}} {
			if _, err := l.parser.Parse(string(r.source)); err != nil {
				l.fail(path+"."+r.field, err.Error(), nil)
			}
		}
	}
	if l.validatorKnown != nil {
		for _, key := range b.Validators {
			if !l.validatorKnown(key) {
				l.fail(path, "unknown validator", key)
			}
		}
	}
	if l.asyncKnown != nil {
		for _, key := range b.AsyncValidators {
			if !l.asyncKnown(key) {
				l.fail(path, "unknown async validator", key)
			}
		}
	}

	typ := b.Type
	if typ == "" && c.Kind() == domain.KindGroup {
		return
	}
	if l.componentKnown != nil && !l.componentKnown(typ) {
		l.fail(path, "no component for type", typ)
		return
	}
	ctl, ok := c.(*domain.Control)
	if !ok || l.extraSchema == nil {
		return
	}
	if s, ok := l.extraSchema(typ); ok {
		if err := validate(s, ctl.Extra, path); err != nil {
			l.errs = append(l.errs, ValidationErrors(err)...)
		}
	}
}
