package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/presentation/graph"
	"github.com/aretw0/formwork/internal/presentation/tui"
	"github.com/aretw0/formwork/pkg/expr"
)

// Output formats of Inspect and Render.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatHTML     = "html"
)

// Inspect writes the snapshot of f as a markdown table or as JSON. The
// form is validated first, so async validators have settled.
func Inspect(ctx context.Context, w io.Writer, f *formwork.Form, format string) error {
	if _, err := f.Validate(ctx); err != nil {
		return err
	}
	snap := f.Snapshot()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatMarkdown, "":
		return tui.Print(w, tui.SnapshotMarkdown(f.ID(), snap))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Render writes f as an HTML fragment or as its snapshot markdown.
func Render(ctx context.Context, w io.Writer, f *formwork.Form, format string) error {
	switch format {
	case FormatHTML, "":
		return f.Render(ctx, w)
	case FormatMarkdown:
		return tui.Print(w, tui.SnapshotMarkdown(f.ID(), f.Snapshot()))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Graph writes a Mermaid diagram of f with rule edges. With overlay the
// live hidden, disabled and invalid states are styled.
func Graph(w io.Writer, f *formwork.Form, overlay bool) error {
	var o *graph.Overlay
	if overlay {
		o = graph.OverlayFromSnapshot(f.Snapshot())
	}
	_, err := io.WriteString(w, graph.GenerateMermaid(f.Content(), expr.NewHCL(), o))
	return err
}
