package engine

import (
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/expr"
	"github.com/aretw0/formwork/pkg/reactive"
)

// parsed is a rule's AST together with the source it came from.
type parsed struct {
	source domain.Expression
	ast    expr.AST
}

// rule evaluates one expression field of a node's content against the
// whole-form value. The AST is re-parsed only when the source text changes,
// and an empty rule never reads the form value.
type rule struct {
	ast   *reactive.Computed[parsed]
	value *reactive.Computed[bool]
}

func newRule(s *Scope, b *base, field string, pick func(*domain.Base) domain.Expression) *rule {
	r := &rule{}
	r.ast = reactive.NewComputed(s.Runtime, func() parsed {
		src := pick(b.content.Get().Common())
		p := parsed{source: src}
		if s.Evaluator == nil {
			return p
		}
		ast, err := s.Evaluator.Parse(string(src))
		if err != nil {
			s.logger().Warn("Failed to parse rule", "node", b.path, "field", field, "error", err)
			s.emitExpressionError(b.path, field, src, err)
			return p
		}
		p.ast = ast
		return p
	}, reactive.WithEqual(func(a, b parsed) bool { return a.source == b.source }))

	r.value = reactive.NewComputed(s.Runtime, func() bool {
		p := r.ast.Get()
		if p.ast == nil {
			return false
		}
		out, err := s.Evaluator.Evaluate(p.ast, s.Value.Get())
		if err != nil {
			s.logger().Debug("rule evaluation failed", "node", b.path, "field", field, "error", err)
			s.emitExpressionError(b.path, field, p.source, err)
			return false
		}
		return expr.Truthy(out)
	})
	return r
}

func (r *rule) dispose() {
	r.value.Dispose()
	r.ast.Dispose()
}
