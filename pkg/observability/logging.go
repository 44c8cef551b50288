package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/formwork/pkg/domain"
)

// LogHooks returns lifecycle hooks that write every event to logger.
// Node events are logged at debug, expression errors at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	node := func(ctx context.Context, e *domain.NodeEvent) {
		logger.DebugContext(ctx, string(e.Type),
			"node", e.Path,
			"kind", e.Kind,
			"hidden", e.Hidden,
		)
	}
	return domain.LifecycleHooks{
		OnAttach:  node,
		OnDetach:  node,
		OnEnable:  node,
		OnDisable: node,
		OnValueHandled: func(ctx context.Context, e *domain.ValueEvent) {
			logger.DebugContext(ctx, string(e.Type),
				"node", e.Path,
				"strategy", e.Strategy,
			)
		},
		OnExpressionError: func(ctx context.Context, e *domain.ExpressionEvent) {
			logger.WarnContext(ctx, "rule failed",
				"node", e.Path,
				"field", e.Field,
				"source", e.Source,
				"err", e.Err,
			)
		},
	}
}
