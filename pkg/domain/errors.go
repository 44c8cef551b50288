package domain

import "errors"

// ErrDraftNotFound is returned when no draft is stored for a session.
var ErrDraftNotFound = errors.New("draft not found")

// ErrFormNotFound is returned when a loader has no form with the given ID.
var ErrFormNotFound = errors.New("form not found")

// ErrNodeNotFound is returned when a path does not name a node of the form.
var ErrNodeNotFound = errors.New("node not found")
