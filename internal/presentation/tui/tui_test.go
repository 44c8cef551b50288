package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/formwork/internal/presentation/tui"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotMarkdown(t *testing.T) {
	s := domain.Snapshot{
		Valid: false,
		Nodes: []domain.NodeState{
			{Path: "name", Type: "text", Kind: domain.KindControl, Attached: true, Status: "INVALID",
				Value: "a|b", Errors: map[string]any{"pattern": true, "minlength": 3}},
			{Path: "vat", Type: "text", Kind: domain.KindControl, Hidden: true, Status: "VALID", Value: ""},
			{Path: "address", Type: "group", Kind: domain.KindGroup, Attached: true, Disabled: true, Readonly: true,
				Status: "DISABLED", Value: map[string]any{}},
		},
	}

	md := tui.SnapshotMarkdown("signup", s)
	lines := strings.Split(md, "\n")
	assert.Equal(t, "# signup", lines[0])
	assert.Contains(t, md, "3 nodes, **invalid**")
	assert.Contains(t, md, "| name | text | INVALID |  | a\\|b | minlength, pattern |")
	assert.Contains(t, md, "| vat | text | VALID | hidden, detached |  |  |")
	assert.Contains(t, md, "| address | group | DISABLED | disabled, readonly |  |  |")
}

func TestPrintToPipe(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tui.Print(&buf, "# plain\n"))
	assert.Equal(t, "# plain\n", buf.String(), "non-terminals get raw markdown")
	assert.False(t, tui.IsTerminal(&buf))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.NotContains(t, buf.String(), "\x1b[", "no escape codes off-terminal")
}
