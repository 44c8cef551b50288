package model

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type asyncJob struct {
	target     AbstractControl
	value      any
	validators []AsyncValidatorFn
}

// ValidateAsync runs the async validators of every pending control under
// root concurrently, then settles their statuses and the statuses of their
// ancestors. Validators only see a snapshot of the value, so they may run on
// other goroutines; results are applied on the caller's goroutine.
func ValidateAsync(ctx context.Context, root AbstractControl) error {
	jobs := root.asyncJobs()
	if len(jobs) == 0 {
		return nil
	}

	results := make([][]Errors, len(jobs))
	eg, ctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		results[i] = make([]Errors, len(job.validators))
		for j, validate := range job.validators {
			eg.Go(func() error {
				errs, err := validate(ctx, job.value)
				if err != nil {
					return fmt.Errorf("async validator failed: %w", err)
				}
				results[i][j] = errs
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, job := range jobs {
		job.target.applyAsync(results[i])
	}
	root.recalcStatus()
	for p := root.Parent(); p != nil; p = p.Parent() {
		p.status = p.calculateStatusOrDisabled()
	}
	return nil
}

func (g *Group) calculateStatusOrDisabled() Status {
	if g.allDisabled() {
		return StatusDisabled
	}
	return g.calculateStatus()
}
