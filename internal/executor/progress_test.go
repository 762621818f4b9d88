package executor

import (
	"errors"
	"testing"

	"github.com/avendel/stepflow/internal/types"
)

func twoStepPlan() *types.Plan {
	return &types.Plan{
		Steps: []types.Step{
			{ID: 1, Description: "A", Status: types.StatusPending},
			{ID: 2, Description: "B", Status: types.StatusPending},
		},
		TotalSteps: 2,
	}
}

func TestApplyStatusCompletedAdvancesCursor(t *testing.T) {
	plan := twoStepPlan()

	if err := ApplyStatus(plan, 0, types.StatusCompleted); err != nil {
		t.Fatalf("ApplyStatus() error = %v", err)
	}

	if plan.Steps[0].Status != types.StatusCompleted {
		t.Errorf("status = %q, want completed", plan.Steps[0].Status)
	}
	if plan.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d, want 1", plan.CurrentStep)
	}
}

func TestApplyStatusCursorCappedAtTotal(t *testing.T) {
	plan := twoStepPlan()
	plan.CurrentStep = 1

	if err := ApplyStatus(plan, 1, types.StatusCompleted); err != nil {
		t.Fatalf("ApplyStatus() error = %v", err)
	}
	if plan.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d, want 2", plan.CurrentStep)
	}

	// A second completion must not overshoot
	if err := ApplyStatus(plan, 1, types.StatusCompleted); err != nil {
		t.Fatalf("ApplyStatus() error = %v", err)
	}
	if plan.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d, want 2 (capped)", plan.CurrentStep)
	}
}

func TestApplyStatusFailedLeavesCursor(t *testing.T) {
	plan := twoStepPlan()

	if err := ApplyStatus(plan, 0, types.StatusFailed); err != nil {
		t.Fatalf("ApplyStatus() error = %v", err)
	}

	if plan.Steps[0].Status != types.StatusFailed {
		t.Errorf("status = %q, want failed", plan.Steps[0].Status)
	}
	if plan.CurrentStep != 0 {
		t.Errorf("CurrentStep = %d, want 0 (failed step stays current)", plan.CurrentStep)
	}
}

func TestApplyStatusInProgressNoSideEffect(t *testing.T) {
	plan := twoStepPlan()

	if err := ApplyStatus(plan, 0, types.StatusInProgress); err != nil {
		t.Fatalf("ApplyStatus() error = %v", err)
	}
	if plan.CurrentStep != 0 {
		t.Errorf("CurrentStep = %d, want 0", plan.CurrentStep)
	}
}

func TestApplyStatusIndexError(t *testing.T) {
	plan := twoStepPlan()

	for _, idx := range []int{-1, 2, 99} {
		err := ApplyStatus(plan, idx, types.StatusCompleted)
		if err == nil {
			t.Errorf("ApplyStatus(%d) expected error", idx)
			continue
		}
		var idxErr *IndexError
		if !errors.As(err, &idxErr) {
			t.Errorf("ApplyStatus(%d) error type = %T, want *IndexError", idx, err)
		}
	}
}

func TestPlanComplete(t *testing.T) {
	plan := twoStepPlan()

	if PlanComplete(plan) {
		t.Error("fresh plan must not be complete")
	}

	plan.Steps[0].Status = types.StatusCompleted
	if PlanComplete(plan) {
		t.Error("plan with a pending step must not be complete")
	}

	// Cursor bookkeeping alone is not enough
	plan.CurrentStep = 2
	if PlanComplete(plan) {
		t.Error("completion is judged by step statuses, not the cursor")
	}

	plan.Steps[1].Status = types.StatusCompleted
	if !PlanComplete(plan) {
		t.Error("plan with all steps completed must be complete")
	}
}
