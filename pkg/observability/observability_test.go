package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeEvent(typ domain.EventType) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{Type: typ, Timestamp: time.Now()},
		Path:      "address.city",
		NodeID:    "city",
		Kind:      domain.KindControl,
	}
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnAttach(ctx, nodeEvent(domain.EventAttach))
	hooks.OnAttach(ctx, nodeEvent(domain.EventAttach))
	hooks.OnDetach(ctx, nodeEvent(domain.EventDetach))
	hooks.OnValueHandled(ctx, &domain.ValueEvent{NodeEvent: *nodeEvent(domain.EventValueHandled), Strategy: domain.ValueReset})
	hooks.OnExpressionError(ctx, &domain.ExpressionEvent{Field: "hide"})
	m.ObserveValidation(10*time.Millisecond, true)
	m.DraftSaved()
	m.DraftDeleted()

	count, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `formwork_node_events_total{event="attach",kind="control"} 2`)
	assert.Contains(t, body, `formwork_node_events_total{event="detach",kind="control"} 1`)
	assert.Contains(t, body, `formwork_value_handled_total{strategy="reset"} 1`)
	assert.Contains(t, body, `formwork_expression_errors_total{field="hide"} 1`)
	assert.Contains(t, body, `formwork_validation_duration_seconds_count{valid="true"} 1`)
	assert.Contains(t, body, `formwork_draft_operations_total{op="save"} 1`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := observability.NewMetrics()
	b := observability.NewMetrics()
	a.DraftSaved()

	count, err := testutil.GatherAndCount(b.Registry())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnDetach(ctx, nodeEvent(domain.EventDetach))
	hooks.OnExpressionError(ctx, &domain.ExpressionEvent{
		Path:   "a",
		Field:  "hide",
		Source: "value.b ==",
		Err:    errors.New("bad"),
	})

	out := buf.String()
	assert.Contains(t, out, "msg=detach node=address.city")
	assert.Contains(t, out, `level=WARN msg="rule failed" node=a field=hide`)
}
