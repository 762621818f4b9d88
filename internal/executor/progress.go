package executor

import (
	"github.com/avendel/stepflow/internal/types"
)

// ApplyStatus sets the status of the step at stepIndex and advances the
// plan's cursor when the transition is a completion. The cursor never moves
// on failure: the failed step stays current so a host can re-invoke the run
// from it. Returns *IndexError when stepIndex is outside the plan.
func ApplyStatus(plan *types.Plan, stepIndex int, status types.Status) error {
	if stepIndex < 0 || stepIndex >= plan.TotalSteps {
		return &IndexError{Index: stepIndex, Total: plan.TotalSteps}
	}

	plan.Steps[stepIndex].Status = status

	if status == types.StatusCompleted {
		plan.CurrentStep++
		if plan.CurrentStep > plan.TotalSteps {
			plan.CurrentStep = plan.TotalSteps
		}
	}

	return nil
}

// PlanComplete reports full success: every step completed, independent of
// cursor bookkeeping
func PlanComplete(plan *types.Plan) bool {
	for i := range plan.Steps {
		if plan.Steps[i].Status != types.StatusCompleted {
			return false
		}
	}
	return len(plan.Steps) > 0
}
