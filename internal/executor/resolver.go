package executor

import (
	"github.com/avendel/stepflow/internal/types"
)

// NextEligible returns the step the plan's cursor points at, provided all of
// its dependencies are completed. Execution always proceeds in plan order:
// the dependency check is a gate, not a reordering mechanism, so a blocked
// step means the plan itself references work that has not happened yet.
//
// Returns (nil, nil) when the plan is already complete, and (nil, unmet)
// with the blocking step indices when the current step is not yet eligible.
func NextEligible(plan *types.Plan) (*types.Step, []int) {
	if plan.CurrentStep >= plan.TotalSteps {
		return nil, nil
	}

	candidate := &plan.Steps[plan.CurrentStep]

	var unmet []int
	for _, dep := range candidate.Dependencies {
		if plan.Steps[dep].Status != types.StatusCompleted {
			unmet = append(unmet, dep)
		}
	}
	if len(unmet) > 0 {
		return nil, unmet
	}

	return candidate, nil
}
