package domain

// HideStrategy decides what happens to a node's model entry while hidden.
type HideStrategy string

const (
	// HideKeep leaves the entry attached; only the view is hidden.
	HideKeep HideStrategy = "keep"
	// HideRemove detaches the entry from its parent container.
	HideRemove HideStrategy = "remove"
)

// Valid reports whether s is a known strategy. The empty string is valid
// and means HideKeep.
func (s HideStrategy) Valid() bool {
	switch s {
	case "", HideKeep, HideRemove:
		return true
	}
	return false
}

// ValueStrategy decides what happens to a node's value when its visibility
// state is re-evaluated.
type ValueStrategy string

const (
	// ValueLast keeps whatever the value was.
	ValueLast ValueStrategy = "last"
	// ValueDefault restores the configured default value.
	ValueDefault ValueStrategy = "default"
	// ValueReset resets the value (nil, or the default for non-nullable controls).
	ValueReset ValueStrategy = "reset"
)

// Valid reports whether s is a known strategy. The empty string is valid
// and means "inherit".
func (s ValueStrategy) Valid() bool {
	switch s {
	case "", ValueLast, ValueDefault, ValueReset:
		return true
	}
	return false
}

// StateHandling switches a derived state between automatic and host-driven.
type StateHandling string

const (
	HandlingAuto   StateHandling = "auto"
	HandlingManual StateHandling = "manual"
)

// UpdateStrategy is the event on which an input value is committed to the
// model.
type UpdateStrategy string

const (
	UpdateOnChange UpdateStrategy = "change"
	UpdateOnBlur   UpdateStrategy = "blur"
	UpdateOnSubmit UpdateStrategy = "submit"
)

// Valid reports whether s is a known strategy. The empty string is valid
// and means "inherit".
func (s UpdateStrategy) Valid() bool {
	switch s {
	case "", UpdateOnChange, UpdateOnBlur, UpdateOnSubmit:
		return true
	}
	return false
}
