package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/expr"
	"github.com/aretw0/formwork/pkg/model"
)

// Overlay contains live node state to visualize on the graph.
type Overlay struct {
	Hidden   []string
	Disabled []string
	Invalid  []string
}

// OverlayFromSnapshot collects the hidden, disabled and invalid paths of a
// snapshot.
func OverlayFromSnapshot(s domain.Snapshot) *Overlay {
	o := &Overlay{}
	for _, n := range s.Nodes {
		if n.Hidden {
			o.Hidden = append(o.Hidden, n.Path)
		}
		if n.Disabled {
			o.Disabled = append(o.Disabled, n.Path)
		}
		if n.Status == string(model.StatusInvalid) {
			o.Invalid = append(o.Invalid, n.Path)
		}
	}
	return o
}

// Rules parses rule expressions and reports the value paths they read.
// *expr.HCL satisfies it.
type Rules interface {
	expr.Parser
	expr.Referencer
}

// GenerateMermaid produces a Mermaid flowchart of a form configuration.
// Groups become subgraphs and controls become nodes shaped by type:
// - Checkbox/Toggle: {{Hexagon}}
// - Select/Radio: [/Parallelogram/]
// - Default: [Rectangle]
// When rules is not nil every rule adds a dotted edge from each node it
// reads to the node it governs. Overlay styles are applied if provided.
func GenerateMermaid(content []domain.Content, rules Rules, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	paths := make(map[string]bool)
	domain.Walk(content, func(path string, _ domain.Content) bool {
		paths[path] = true
		return true
	})

	writeContent(&sb, content, "", 1)

	if rules != nil {
		domain.Walk(content, func(path string, c domain.Content) bool {
			b := c.Common()
			writeRule(&sb, rules, paths, path, hideLabel(b), b.Hide)
			writeRule(&sb, rules, paths, path, "disabled", b.Disabled)
			writeRule(&sb, rules, paths, path, "readonly", b.Readonly)
			return true
		})
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef hidden fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4 4,color:#000;\n")
		sb.WriteString("    classDef disabled fill:#fff3e0,stroke:#e65100,color:#000;\n")
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#b71c1c,stroke-width:2px,color:#000;\n")
		writeClass(&sb, "hidden", overlay.Hidden)
		writeClass(&sb, "disabled", overlay.Disabled)
		writeClass(&sb, "invalid", overlay.Invalid)
	}

	return sb.String()
}

func writeContent(sb *strings.Builder, content []domain.Content, prefix string, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, c := range content {
		if c == nil {
			continue
		}
		path := domain.JoinPath(prefix, c.Common().ID)
		safeID := sanitizeMermaidID(path)

		switch n := c.(type) {
		case *domain.Group:
			title := n.Title
			if title == "" {
				title = n.ID
			}
			fmt.Fprintf(sb, "%ssubgraph %s[\"%s\"]\n", indent, safeID, quote(title))
			writeContent(sb, n.Controls, path, depth+1)
			fmt.Fprintf(sb, "%send\n", indent)
		case *domain.Control:
			opener, closer := "[", "]"
			switch n.Type {
			case "checkbox", "toggle":
				opener, closer = "{{", "}}"
			case "select", "radio":
				opener, closer = "[/", "/]"
			}
			fmt.Fprintf(sb, "%s%s%s\"%s <br/> %s\"%s\n", indent, safeID, opener, quote(n.ID), quote(n.Type), closer)
		}
	}
}

func writeRule(sb *strings.Builder, rules Rules, paths map[string]bool, target, label string, rule domain.Expression) {
	if rule == "" {
		return
	}
	ast, err := rules.Parse(string(rule))
	if err != nil || ast == nil {
		return
	}
	seen := make(map[string]bool)
	for _, ref := range rules.References(ast) {
		from := closestNode(paths, ref)
		if from == "" || from == target || seen[from] {
			continue
		}
		seen[from] = true
		fmt.Fprintf(sb, "    %s -. %s .-> %s\n", sanitizeMermaidID(from), label, sanitizeMermaidID(target))
	}
}

// closestNode maps a value path to the deepest declared node containing it.
func closestNode(paths map[string]bool, ref string) string {
	for p := ref; p != ""; {
		if paths[p] {
			return p
		}
		i := strings.LastIndex(p, ".")
		if i < 0 {
			break
		}
		p = p[:i]
	}
	return ""
}

func hideLabel(b *domain.Base) string {
	if b.HideStrategy == domain.HideRemove {
		return "hide+remove"
	}
	return "hide"
}

func writeClass(sb *strings.Builder, class string, paths []string) {
	ids := make([]string, 0, len(paths))
	seen := make(map[string]bool)
	for _, p := range paths {
		safeID := sanitizeMermaidID(p)
		if safeID != "" && !seen[safeID] {
			seen[safeID] = true
			ids = append(ids, safeID)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(sb, "    class %s %s;\n", id, class)
	}
}

func quote(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
