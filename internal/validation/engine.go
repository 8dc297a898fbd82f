package validation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Proposed is the appointment tuple under validation. It is built by the
// booking workflow and never persisted as-is.
type Proposed struct {
	ProfessionalID uuid.UUID
	PatientID      uuid.UUID
	Start          time.Time
	End            time.Time
	// ExcludeAppointmentID is set when revalidating an existing
	// appointment being edited, so it does not conflict with itself.
	ExcludeAppointmentID *uuid.UUID
}

// Engine runs every validator for a proposed appointment and merges
// their verdicts. It holds no state beyond its collaborators and
// performs no writes; whether to persist despite errors (squeeze-in) is
// the caller's decision, not the engine's.
type Engine struct {
	store Store
	rules Rules
	now   func() time.Time
}

func NewEngine(store Store, rules Rules) *Engine {
	return &Engine{
		store: store,
		rules: rules,
		now:   time.Now,
	}
}

// Validate runs the two synchronous validators inline and the five
// store-backed ones concurrently; none depends on another's outcome.
// Errors and warnings are concatenated in validator-declaration order
// regardless of completion order.
func (e *Engine) Validate(ctx context.Context, p Proposed) Result {
	pre := []Result{
		e.checkDuration(p),
		e.checkNotInPast(p),
	}

	checks := []func(context.Context, Proposed) Result{
		e.checkConflicts,
		e.checkWorkingHours,
		e.checkDailyCapacity,
		e.checkDailyWorkload,
		e.checkPatientSpacing,
	}

	results := make([]Result, len(checks))

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, check func(context.Context, Proposed) Result) {
			defer wg.Done()
			results[i] = check(ctx, p)
		}(i, check)
	}
	wg.Wait()

	return Merge(append(pre, results...)...)
}
