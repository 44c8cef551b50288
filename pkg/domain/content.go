package domain

// Kind tells controls and groups apart.
type Kind string

const (
	KindControl Kind = "control"
	KindGroup   Kind = "group"
)

// Expression is the source text of a hide, disabled or readonly rule.
// An empty Expression never matches.
type Expression string

// Content is one node of a form configuration tree: a *Control or a *Group.
type Content interface {
	// Common exposes the fields every node shares.
	Common() *Base
	Kind() Kind
}

// Base holds the configuration shared by controls and groups.
type Base struct {
	// ID must be unique among siblings. It is the key of the node's entry in
	// its parent container.
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// Type selects the component used to render the node.
	Type string `json:"type" yaml:"type" mapstructure:"type"`

	Hide          Expression    `json:"hide,omitempty" yaml:"hide,omitempty" mapstructure:"hide"`
	HideStrategy  HideStrategy  `json:"hideStrategy,omitempty" yaml:"hideStrategy,omitempty" mapstructure:"hideStrategy"`
	ValueStrategy ValueStrategy `json:"valueStrategy,omitempty" yaml:"valueStrategy,omitempty" mapstructure:"valueStrategy"`
	Disabled      Expression    `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled"`
	Readonly      Expression    `json:"readonly,omitempty" yaml:"readonly,omitempty" mapstructure:"readonly"`

	// Validators and AsyncValidators are registry keys, resolved when the
	// node's model instance is built.
	Validators      []string `json:"validators,omitempty" yaml:"validators,omitempty" mapstructure:"validators"`
	AsyncValidators []string `json:"asyncValidators,omitempty" yaml:"asyncValidators,omitempty" mapstructure:"asyncValidators"`

	UpdateOn UpdateStrategy `json:"updateOn,omitempty" yaml:"updateOn,omitempty" mapstructure:"updateOn"`
}

// Control is a leaf input.
type Control struct {
	Base         `yaml:",inline" mapstructure:",squash"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	DefaultValue any    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" mapstructure:"defaultValue"`

	// NonNullable makes Reset fall back to DefaultValue instead of nil.
	NonNullable bool `json:"nonNullable,omitempty" yaml:"nonNullable,omitempty" mapstructure:"nonNullable"`

	// Extra keeps every key this struct does not declare, for components
	// that need more than the common fields (placeholder, options, ...).
	Extra map[string]any `json:"-" yaml:"-" mapstructure:",remain"`
}

func (c *Control) Common() *Base { return &c.Base }
func (c *Control) Kind() Kind    { return KindControl }

// Group nests an ordered list of children under its own container.
type Group struct {
	Base     `yaml:",inline" mapstructure:",squash"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Controls []Content `json:"controls" yaml:"controls" mapstructure:"-"`
}

func (g *Group) Common() *Base { return &g.Base }
func (g *Group) Kind() Kind    { return KindGroup }

// Walk visits every node depth-first in declaration order. path is the
// dot-joined chain of ids leading to the node. Returning false from fn
// skips the node's children.
func Walk(content []Content, fn func(path string, c Content) bool) {
	walk("", content, fn)
}

func walk(prefix string, content []Content, fn func(string, Content) bool) {
	for _, c := range content {
		if c == nil {
			continue
		}
		path := JoinPath(prefix, c.Common().ID)
		if !fn(path, c) {
			continue
		}
		if g, ok := c.(*Group); ok {
			walk(path, g.Controls, fn)
		}
	}
}

// JoinPath appends id to a dot-separated node path.
func JoinPath(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + "." + id
}

// DefaultValues builds the value a freshly built form would hold.
func DefaultValues(content []Content) map[string]any {
	out := make(map[string]any, len(content))
	for _, c := range content {
		switch n := c.(type) {
		case *Control:
			out[n.ID] = n.DefaultValue
		case *Group:
			out[n.ID] = DefaultValues(n.Controls)
		}
	}
	return out
}
