package ports

import (
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
)

// Node is the live state of one content node inside a form.
//
// State accessors are reactive: called from an effect of the form's
// runtime they record a dependency.
type Node interface {
	ID() string
	// Path is the dot-joined chain of ids from the form root.
	Path() string
	Kind() domain.Kind
	Content() domain.Content

	// Control is the node's model instance. It is only part of the form
	// value while Attached.
	Control() model.AbstractControl
	Attached() bool

	Hidden() bool
	// HiddenAttribute is what a renderer should use to hide the node. It
	// follows Hidden, except while visibility handling is manual.
	HiddenAttribute() bool
	Disabled() bool
	Readonly() bool
	HideStrategy() domain.HideStrategy
	ValueStrategy() domain.ValueStrategy
	UpdateOn() domain.UpdateStrategy

	// SetVisibilityHandling hands attach, detach and value handling over to
	// the host (manual) or back to the engine (auto).
	SetVisibilityHandling(h domain.StateHandling)
	// SetDisabledHandling does the same for enable and disable.
	SetDisabledHandling(h domain.StateHandling)

	// Children is empty for controls.
	Children() []Node
}
