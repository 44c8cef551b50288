package tui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// IsTerminal reports whether w is a terminal. Anything that is not an
// *os.File is treated as a pipe.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return "", err
		}
		return r.Render(markdown)
	}
}

// Print writes markdown to w, styled with glamour when w is a terminal.
func Print(w io.Writer, markdown string) error {
	if IsTerminal(w) {
		out, err := NewRenderer()(markdown)
		if err == nil {
			markdown = out
		}
	}
	_, err := io.WriteString(w, markdown)
	return err
}

// SnapshotMarkdown lays a form snapshot out as a markdown document: a
// summary line followed by one table row per node.
func SnapshotMarkdown(title string, s domain.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	valid := "valid"
	if !s.Valid {
		valid = "**invalid**"
	}
	fmt.Fprintf(&sb, "%d nodes, %s\n\n", len(s.Nodes), valid)

	sb.WriteString("| Path | Type | Status | State | Value | Errors |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, n := range s.Nodes {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			cell(n.Path), cell(n.Type), n.Status, flags(n), value(n), cell(errorKeys(n.Errors)))
	}
	return sb.String()
}

func flags(n domain.NodeState) string {
	var out []string
	if n.Hidden {
		out = append(out, "hidden")
	}
	if !n.Attached {
		out = append(out, "detached")
	}
	if n.Disabled {
		out = append(out, "disabled")
	}
	if n.Readonly {
		out = append(out, "readonly")
	}
	return strings.Join(out, ", ")
}

func value(n domain.NodeState) string {
	if n.Kind == domain.KindGroup || n.Value == nil {
		return ""
	}
	return cell(fmt.Sprintf("%v", n.Value))
}

func errorKeys(errs map[string]any) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// cell escapes pipes and newlines so a value stays inside its table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
