package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAttach          EventType = "attach"
	EventDetach          EventType = "detach"
	EventValueHandled    EventType = "value_handled"
	EventEnable          EventType = "enable"
	EventDisable         EventType = "disable"
	EventExpressionError EventType = "expression_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent reports a change the engine applied to a node's model entry.
type NodeEvent struct {
	EventBase
	Path   string `json:"path"`
	NodeID string `json:"node_id"`
	Kind   Kind   `json:"kind"`
	Hidden bool   `json:"hidden"`
}

// ValueEvent reports that a value strategy was applied.
type ValueEvent struct {
	NodeEvent
	Strategy ValueStrategy `json:"strategy"`
}

// ExpressionEvent reports a rule that failed to parse or evaluate. The
// rule counts as false.
type ExpressionEvent struct {
	EventBase
	Path   string     `json:"path"`
	Field  string     `json:"field"` // hide, disabled or readonly
	Source Expression `json:"source"`
	Err    error      `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnAttach          func(context.Context, *NodeEvent)
	OnDetach          func(context.Context, *NodeEvent)
	OnValueHandled    func(context.Context, *ValueEvent)
	OnEnable          func(context.Context, *NodeEvent)
	OnDisable         func(context.Context, *NodeEvent)
	OnExpressionError func(context.Context, *ExpressionEvent)
}

// ChainHooks fans every callback out to each of hooks, in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnAttach: func(ctx context.Context, e *NodeEvent) {
			for _, h := range hooks {
				if h.OnAttach != nil {
					h.OnAttach(ctx, e)
				}
			}
		},
		OnDetach: func(ctx context.Context, e *NodeEvent) {
			for _, h := range hooks {
				if h.OnDetach != nil {
					h.OnDetach(ctx, e)
				}
			}
		},
		OnValueHandled: func(ctx context.Context, e *ValueEvent) {
			for _, h := range hooks {
				if h.OnValueHandled != nil {
					h.OnValueHandled(ctx, e)
				}
			}
		},
		OnEnable: func(ctx context.Context, e *NodeEvent) {
			for _, h := range hooks {
				if h.OnEnable != nil {
					h.OnEnable(ctx, e)
				}
			}
		},
		OnDisable: func(ctx context.Context, e *NodeEvent) {
			for _, h := range hooks {
				if h.OnDisable != nil {
					h.OnDisable(ctx, e)
				}
			}
		},
		OnExpressionError: func(ctx context.Context, e *ExpressionEvent) {
			for _, h := range hooks {
				if h.OnExpressionError != nil {
					h.OnExpressionError(ctx, e)
				}
			}
		},
	}
}
