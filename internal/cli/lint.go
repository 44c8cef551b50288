package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/formwork/pkg/expr"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/render"
	"github.com/aretw0/formwork/pkg/schema"
	"github.com/aretw0/formwork/pkg/validators"
)

// Lint loads the named forms (every form when ids is empty) and runs the
// full set of checks on each: structure, rule syntax, validator keys,
// component types and component extras.
func Lint(ctx context.Context, loader ports.ContentLoader, ids ...string) error {
	if len(ids) == 0 {
		var err error
		if ids, err = loader.List(ctx); err != nil {
			return err
		}
	}

	known := validators.Standard()
	components := render.Defaults()
	opts := []schema.LintOption{
		schema.WithParser(expr.NewHCL()),
		schema.WithValidatorKeys(known.Has),
		schema.WithComponentTypes(components.Has),
		schema.WithExtraSchemas(components.Extra),
	}

	var errs []error
	for _, id := range ids {
		content, err := loader.Load(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := schema.Lint(content, opts...); err != nil {
			errs = append(errs, fmt.Errorf("form %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
