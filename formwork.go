package formwork

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/aretw0/formwork/internal/engine"
	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/expr"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/reactive"
	"github.com/aretw0/formwork/pkg/render"
	"github.com/aretw0/formwork/pkg/schema"
	"github.com/aretw0/formwork/pkg/validators"
)

// Version is the library version reported by the CLI.
const Version = "0.4.0"

// Form is the high-level entry point of the library. It owns the root
// model group, the reactive runtime and the node tree built from content.
// A Form is not safe for concurrent use.
type Form struct {
	id        string
	rt        *reactive.Runtime
	root      *model.Group
	value     *reactive.Signal[map[string]any]
	scope     *engine.Scope
	nodes     []engine.Node
	content   []domain.Content
	renderer  *render.Renderer
	logger    *slog.Logger
	unwatch   func()
	closed    bool
	evaluator expr.Evaluator

	validators      *validators.Sync
	asyncValidators *validators.Async
	components      *render.Registry
	hooks           domain.LifecycleHooks
	updateOn        domain.UpdateStrategy
	testID          render.TestIDBuilder
}

// Option defines a functional option for configuring a Form.
type Option func(*Form)

// WithID sets the id of the rendered <form> element (default "form").
func WithID(id string) Option {
	return func(f *Form) {
		f.id = id
	}
}

// WithLogger sets a custom structured logger. Forms are silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithEvaluator sets the evaluator for hide, disabled and readonly rules.
func WithEvaluator(e expr.Evaluator) Option {
	return func(f *Form) {
		f.evaluator = e
	}
}

// WithValidators sets the registry validator keys are resolved against.
func WithValidators(r *validators.Sync) Option {
	return func(f *Form) {
		f.validators = r
	}
}

// WithAsyncValidators sets the registry async validator keys are resolved against.
func WithAsyncValidators(r *validators.Async) Option {
	return func(f *Form) {
		f.asyncValidators = r
	}
}

// WithComponents sets the component registry used by Render.
func WithComponents(r *render.Registry) Option {
	return func(f *Form) {
		f.components = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(f *Form) {
		f.hooks = hooks
	}
}

// WithUpdateStrategy sets the form-wide commit trigger for nodes that
// declare none.
func WithUpdateStrategy(s domain.UpdateStrategy) Option {
	return func(f *Form) {
		f.updateOn = s
	}
}

// WithTestIDBuilder overrides how rendered nodes get their data-testid.
func WithTestIDBuilder(fn render.TestIDBuilder) Option {
	return func(f *Form) {
		f.testID = fn
	}
}

// New builds a form from content. Structural problems (empty, dotted or
// duplicate sibling ids, unknown strategies) are reported as a
// *schema.AggregateError.
func New(content []domain.Content, opts ...Option) (*Form, error) {
	f := &Form{id: "form"}
	for _, opt := range opts {
		opt(f)
	}

	if !f.updateOn.Valid() {
		return nil, fmt.Errorf("invalid update strategy %q", f.updateOn)
	}
	if err := schema.Lint(content); err != nil {
		return nil, fmt.Errorf("invalid form content: %w", err)
	}

	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	f.logger = f.logger.With("form", f.id)
	if f.evaluator == nil {
		f.evaluator = expr.NewHCL()
	}
	if f.validators == nil {
		f.validators = validators.Standard()
	}
	if f.components == nil {
		f.components = render.Defaults()
	}

	var rootOpts []model.Option
	if f.updateOn != "" {
		rootOpts = append(rootOpts, model.WithUpdateOn(f.updateOn))
	}
	f.rt = reactive.NewRuntime()
	f.root = model.NewGroup(rootOpts...)
	f.value = reactive.NewSignal(f.rt, domain.DefaultValues(content))
	f.scope = &engine.Scope{
		Runtime:         f.rt,
		Root:            reactive.NewSignal(f.rt, f.root),
		Value:           f.value,
		Evaluator:       f.evaluator,
		Validators:      f.validators,
		AsyncValidators: f.asyncValidators,
		Logger:          f.logger,
		Hooks:           f.hooks,
		Context:         context.Background(),
	}
	f.renderer = render.NewRenderer(f.components,
		render.WithTestIDBuilder(f.testID),
		render.WithLogger(f.logger),
	)

	f.unwatch = f.root.Subscribe(func(any) { f.sync() })
	f.nodes = engine.Reconcile(f.scope, nil, nil, content)
	f.content = content
	f.sync()

	f.logger.Debug("form built", "nodes", f.count())
	return f, nil
}

// Load fetches content from loader and builds a form from it.
func Load(ctx context.Context, loader ports.ContentLoader, formID string, opts ...Option) (*Form, error) {
	content, err := loader.Load(ctx, formID)
	if err != nil {
		return nil, err
	}
	return New(content, append([]Option{WithID(formID)}, opts...)...)
}

// sync feeds the root's raw value to the rules. Engine mutations are
// silent, so only host changes and explicit syncs reach it.
func (f *Form) sync() {
	f.value.Set(f.root.RawValue().(map[string]any))
}

func (f *Form) count() int {
	n := 0
	engine.Walk(f.nodes, func(engine.Node) { n++ })
	return n
}

// ID returns the form id.
func (f *Form) ID() string { return f.id }

// Model returns the root model group.
func (f *Form) Model() *model.Group { return f.root }

// Content returns the content the form was last built from.
func (f *Form) Content() []domain.Content { return f.content }

// Value returns the value of the attached, enabled nodes.
func (f *Form) Value() map[string]any {
	return f.root.Value().(map[string]any)
}

// RawValue returns the value of every attached node, disabled or not.
func (f *Form) RawValue() map[string]any {
	return f.root.RawValue().(map[string]any)
}

// Valid reports whether every attached, enabled node passes validation.
func (f *Form) Valid() bool {
	return f.root.Valid()
}

// SetValue writes the value of the node at path. A group takes a map and
// is patched. The write reaches the node's model even while it is
// detached; the form value only reflects attached nodes.
func (f *Form) SetValue(path string, v any) error {
	n, err := f.lookup(path)
	if err != nil {
		return err
	}
	switch m := n.Control().(type) {
	case *model.Control:
		m.SetValue(v)
	case *model.Group:
		values, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is a group: expected map[string]any, got %T", path, v)
		}
		m.PatchValue(values)
	}
	return nil
}

// Input records a value typed by the user into the control at path,
// honoring its update strategy.
func (f *Form) Input(path string, v any) error {
	c, err := f.control(path)
	if err != nil {
		return err
	}
	c.Input(v)
	return nil
}

// Blur marks the control at path as touched, committing pending input of
// controls that update on blur.
func (f *Form) Blur(path string) error {
	c, err := f.control(path)
	if err != nil {
		return err
	}
	c.Blur()
	return nil
}

// Commit commits the pending input of every attached control that updates
// on submit.
func (f *Form) Commit() {
	f.root.Submit()
}

// Patch sets the attached nodes named in values and ignores other keys.
func (f *Form) Patch(values map[string]any) {
	f.root.PatchValue(values)
}

// Restore patches a saved value into the form. Patching one entry can
// attach another that values also names, so values are applied twice.
func (f *Form) Restore(values map[string]any) {
	f.Patch(values)
	f.Patch(values)
}

// Reset restores every attached control to its declared default value.
func (f *Form) Reset() {
	f.root.Reset(domain.DefaultValues(f.content))
	f.sync()
}

// SetContent reconciles the form with new content. Nodes are matched by
// sibling id and kind: matches are updated in place and keep their value
// unless their model configuration changed, the rest are destroyed or
// built.
func (f *Form) SetContent(content []domain.Content) error {
	if err := schema.Lint(content); err != nil {
		return fmt.Errorf("invalid form content: %w", err)
	}
	f.nodes = engine.Reconcile(f.scope, nil, f.nodes, content)
	f.content = content
	f.sync()
	f.logger.Debug("form content replaced", "nodes", f.count())
	return nil
}

// Node returns the node at a dot-separated path.
func (f *Form) Node(path string) (ports.Node, error) {
	return f.lookup(path)
}

func (f *Form) lookup(path string) (engine.Node, error) {
	var found engine.Node
	engine.Walk(f.nodes, func(n engine.Node) {
		if found == nil && n.Path() == path {
			found = n
		}
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, path)
	}
	return found, nil
}

func (f *Form) control(path string) (*model.Control, error) {
	n, err := f.lookup(path)
	if err != nil {
		return nil, err
	}
	c, ok := n.Control().(*model.Control)
	if !ok {
		return nil, fmt.Errorf("%s is not a control", path)
	}
	return c, nil
}

// Nodes returns the top-level nodes in declaration order.
func (f *Form) Nodes() []ports.Node {
	out := make([]ports.Node, len(f.nodes))
	for i, n := range f.nodes {
		out[i] = n
	}
	return out
}

// Snapshot captures the value and the state of every node.
func (f *Form) Snapshot() domain.Snapshot {
	s := domain.Snapshot{
		Value: f.Value(),
		Valid: f.root.Valid(),
	}
	engine.Walk(f.nodes, func(n engine.Node) {
		m := n.Control()
		st := domain.NodeState{
			Path:          n.Path(),
			ID:            n.ID(),
			Type:          n.Content().Common().Type,
			Kind:          n.Kind(),
			Hidden:        n.Hidden(),
			Attached:      n.Attached(),
			Disabled:      n.Disabled(),
			Readonly:      n.Readonly(),
			HideStrategy:  n.HideStrategy(),
			ValueStrategy: n.ValueStrategy(),
			Status:        string(m.Status()),
		}
		if errs := m.Errors(); len(errs) > 0 {
			st.Errors = map[string]any(errs)
		}
		if n.Kind() == domain.KindControl {
			st.Value = m.RawValue()
		}
		s.Nodes = append(s.Nodes, st)
	})
	return s
}

// Validate re-runs the validators of every attached node, including async
// ones, and reports whether the form is valid. An error means an async
// validator failed to run, not that the form is invalid.
func (f *Form) Validate(ctx context.Context) (bool, error) {
	f.root.UpdateValueAndValidity(model.Silent())
	if err := model.ValidateAsync(ctx, f.root); err != nil {
		return false, fmt.Errorf("failed to validate form: %w", err)
	}
	return f.root.Valid(), nil
}

// Component returns the form as a templ component.
func (f *Form) Component() templ.Component {
	return f.renderer.Form(f.id, f.Nodes())
}

// Render writes the form markup to w.
func (f *Form) Render(ctx context.Context, w io.Writer) error {
	return f.Component().Render(ctx, w)
}

// Close destroys every node, detaching it from the root. Close is
// idempotent.
func (f *Form) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.rt.Batch(func() {
		for _, n := range f.nodes {
			n.Destroy()
		}
	})
	f.nodes = nil
	f.unwatch()
}
