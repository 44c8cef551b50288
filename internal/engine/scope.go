package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/expr"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/reactive"
	"github.com/aretw0/formwork/pkg/validators"
)

// Scope is what every node of a form shares.
type Scope struct {
	Runtime *reactive.Runtime

	// Root is the container top-level nodes attach to.
	Root reactive.Readable[*model.Group]

	// Value is the whole-form value rules are evaluated against.
	Value reactive.Readable[map[string]any]

	Evaluator       expr.Evaluator
	Validators      *validators.Sync
	AsyncValidators *validators.Async

	Logger  *slog.Logger
	Hooks   domain.LifecycleHooks
	Context context.Context
}

func (s *Scope) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}

func (s *Scope) ctx() context.Context {
	if s.Context == nil {
		return context.Background()
	}
	return s.Context
}

func (s *Scope) nodeEvent(t domain.EventType, b *base) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t},
		Path:      b.path,
		NodeID:    b.id,
		Kind:      b.kind,
		Hidden:    b.hidden.Peek(),
	}
}

func (s *Scope) emitAttach(b *base) {
	s.logger().Debug("node attached", "node", b.path)
	if s.Hooks.OnAttach != nil {
		s.Hooks.OnAttach(s.ctx(), s.nodeEvent(domain.EventAttach, b))
	}
}

func (s *Scope) emitDetach(b *base) {
	s.logger().Debug("node detached", "node", b.path)
	if s.Hooks.OnDetach != nil {
		s.Hooks.OnDetach(s.ctx(), s.nodeEvent(domain.EventDetach, b))
	}
}

func (s *Scope) emitValueHandled(b *base, strategy domain.ValueStrategy) {
	s.logger().Debug("value handled", "node", b.path, "strategy", strategy)
	if s.Hooks.OnValueHandled != nil {
		s.Hooks.OnValueHandled(s.ctx(), &domain.ValueEvent{
			NodeEvent: *s.nodeEvent(domain.EventValueHandled, b),
			Strategy:  strategy,
		})
	}
}

func (s *Scope) emitDisabled(b *base, disabled bool) {
	t := domain.EventEnable
	hook := s.Hooks.OnEnable
	if disabled {
		t = domain.EventDisable
		hook = s.Hooks.OnDisable
	}
	s.logger().Debug("node "+string(t)+"d", "node", b.path)
	if hook != nil {
		hook(s.ctx(), s.nodeEvent(t, b))
	}
}

func (s *Scope) emitExpressionError(path, field string, source domain.Expression, err error) {
	if s.Hooks.OnExpressionError != nil {
		s.Hooks.OnExpressionError(s.ctx(), &domain.ExpressionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventExpressionError},
			Path:      path,
			Field:     field,
			Source:    source,
			Err:       err,
		})
	}
}
