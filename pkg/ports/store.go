package ports

import (
	"context"

	"github.com/aretw0/formwork/pkg/domain"
)

// DraftStore persists the values of a form per session, so that a user can
// leave a form half filled and come back to it.
type DraftStore interface {
	// Save persists the draft under its FormID and SessionID.
	Save(ctx context.Context, draft *domain.Draft) error

	// Load retrieves the draft of a session.
	// Returns domain.ErrDraftNotFound if there is none.
	Load(ctx context.Context, formID, sessionID string) (*domain.Draft, error)

	// Delete removes a draft. Deleting a missing draft is not an error.
	Delete(ctx context.Context, formID, sessionID string) error

	// List returns the session IDs holding a draft of the form.
	List(ctx context.Context, formID string) ([]string, error)
}
