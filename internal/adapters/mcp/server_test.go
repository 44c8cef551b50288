package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/dsl"
	"github.com/aretw0/formwork/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	b := dsl.New()
	b.Checkbox("company")
	b.Text("vat").Hide("value.company != true").Remove().Validators("required")
	b.Text("email").Validators("email")
	loader, err := b.Loader("signup")
	require.NoError(t, err)

	store := memory.NewStore()
	return NewServer(loader, session.NewManager(store)), store
}

func args(kv ...string) map[string]interface{} {
	out := make(map[string]interface{})
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

func TestListForms(t *testing.T) {
	s, _ := setup(t)
	resp, err := s.handleListForms(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"signup"}, resp.Forms)
}

func TestGetState(t *testing.T) {
	s, _ := setup(t)
	ctx := context.Background()

	resp, err := s.handleGetState(ctx, mcp.CallToolRequest{}, args("form_id", "signup", "session_id", "s1"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Version)
	assert.Equal(t, map[string]any{"company": false, "email": ""}, resp.Value)

	_, err = s.handleGetState(ctx, mcp.CallToolRequest{}, args("form_id", "signup"))
	assert.Error(t, err)

	_, err = s.handleGetState(ctx, mcp.CallToolRequest{}, args("form_id", "missing", "session_id", "s1"))
	assert.Error(t, err)
}

func TestPatchValues(t *testing.T) {
	s, store := setup(t)
	ctx := context.Background()

	resp, err := s.handlePatchValues(ctx, mcp.CallToolRequest{},
		args("form_id", "signup", "session_id", "s1", "values", `{"company": true, "vat": "PT1"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"company": true, "vat": "PT1", "email": ""}, resp.Value)
	assert.True(t, resp.Valid)

	draft, err := store.Load(ctx, "signup", "s1")
	require.NoError(t, err)
	assert.Equal(t, "PT1", draft.Values["vat"])

	resp, err = s.handlePatchValues(ctx, mcp.CallToolRequest{},
		args("form_id", "signup", "session_id", "s1", "values", `{"email": "a\u0000@b.co"}`))
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", resp.Value["email"], "values are sanitized")
	assert.Equal(t, "PT1", resp.Value["vat"], "earlier values come from the draft")

	_, err = s.handlePatchValues(ctx, mcp.CallToolRequest{},
		args("form_id", "signup", "session_id", "s1", "values", `not json`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s, _ := setup(t)
	ctx := context.Background()

	_, err := s.handlePatchValues(ctx, mcp.CallToolRequest{},
		args("form_id", "signup", "session_id", "s1", "values", `{"company": true}`))
	require.NoError(t, err)

	resp, err := s.handleValidate(ctx, mcp.CallToolRequest{}, args("form_id", "signup", "session_id", "s1"))
	require.NoError(t, err)
	assert.False(t, resp.Valid, "vat is required once attached")

	var vat *domain.NodeState
	for i := range resp.Nodes {
		if resp.Nodes[i].Path == "vat" {
			vat = &resp.Nodes[i]
		}
	}
	require.NotNil(t, vat)
	assert.Contains(t, vat.Errors, "required")
}
