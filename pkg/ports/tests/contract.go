package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
)

// ContentLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ContentLoader.
// setupData maps each form ID the loader holds to the IDs of its top-level nodes, in order.
func ContentLoaderContractTest(t *testing.T, loader ports.ContentLoader, setupData map[string][]string) {
	t.Helper()
	ctx := context.Background()

	// 1. Test Load (Success)
	t.Run("Load_Success", func(t *testing.T) {
		for formID, wantIDs := range setupData {
			content, err := loader.Load(ctx, formID)
			if err != nil {
				t.Fatalf("unexpected error loading form %s: %v", formID, err)
			}
			if len(content) != len(wantIDs) {
				t.Fatalf("form %s: expected %d nodes, got %d", formID, len(wantIDs), len(content))
			}
			for i, c := range content {
				if got := c.Common().ID; got != wantIDs[i] {
					t.Errorf("form %s: node %d is %q, want %q", formID, i, got, wantIDs[i])
				}
			}
		}
	})

	// 2. Test Load (NotFound)
	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-form")
		if !errors.Is(err, domain.ErrFormNotFound) {
			t.Errorf("expected ErrFormNotFound for non-existent form, got %v", err)
		}
	})

	// 3. Test List
	t.Run("List", func(t *testing.T) {
		forms, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing forms: %v", err)
		}

		if len(forms) != len(setupData) {
			t.Errorf("expected %d forms, got %d", len(setupData), len(forms))
		}

		for i := 1; i < len(forms); i++ {
			if forms[i-1] > forms[i] {
				t.Errorf("forms are not sorted: %v", forms)
				break
			}
		}

		lookup := make(map[string]bool)
		for _, id := range forms {
			lookup[id] = true
		}
		for id := range setupData {
			if !lookup[id] {
				t.Errorf("form %s missing from list", id)
			}
		}
	})
}
