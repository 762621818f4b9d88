package executor

import (
	"testing"

	"github.com/avendel/stepflow/internal/types"
)

func threeStepPlan() *types.Plan {
	// Step at index 1 depends on index 0
	return &types.Plan{
		Steps: []types.Step{
			{ID: 1, Description: "A", Status: types.StatusPending, Dependencies: []int{}},
			{ID: 2, Description: "B", Status: types.StatusPending, Dependencies: []int{0}},
			{ID: 3, Description: "C", Status: types.StatusPending, Dependencies: []int{}},
		},
		TotalSteps: 3,
	}
}

func TestNextEligibleFirstStep(t *testing.T) {
	plan := threeStepPlan()

	step, unmet := NextEligible(plan)
	if step == nil {
		t.Fatal("expected first step to be eligible")
	}
	if step.ID != 1 {
		t.Errorf("step.ID = %d, want 1", step.ID)
	}
	if unmet != nil {
		t.Errorf("unmet = %v, want nil", unmet)
	}
}

func TestNextEligibleBlockedUntilDependencyCompletes(t *testing.T) {
	plan := threeStepPlan()
	plan.CurrentStep = 1

	// Dependency at index 0 is still pending
	step, unmet := NextEligible(plan)
	if step != nil {
		t.Fatalf("step B should not be eligible before A completes, got %+v", step)
	}
	if len(unmet) != 1 || unmet[0] != 0 {
		t.Errorf("unmet = %v, want [0]", unmet)
	}

	// In-progress is not completed either
	plan.Steps[0].Status = types.StatusInProgress
	if step, _ := NextEligible(plan); step != nil {
		t.Fatal("in-progress dependency must still block")
	}

	plan.Steps[0].Status = types.StatusCompleted
	step, unmet = NextEligible(plan)
	if step == nil {
		t.Fatal("step B should be eligible after A completes")
	}
	if step.ID != 2 {
		t.Errorf("step.ID = %d, want 2", step.ID)
	}
	if unmet != nil {
		t.Errorf("unmet = %v, want nil", unmet)
	}
}

func TestNextEligibleCompletePlan(t *testing.T) {
	plan := threeStepPlan()
	plan.CurrentStep = 3

	step, unmet := NextEligible(plan)
	if step != nil || unmet != nil {
		t.Errorf("NextEligible() = (%v, %v), want (nil, nil) for a complete plan", step, unmet)
	}
}

func TestNextEligibleSingleStepPlan(t *testing.T) {
	plan := &types.Plan{
		Steps:      []types.Step{{ID: 1, Description: "only", Status: types.StatusPending}},
		TotalSteps: 1,
	}

	step, _ := NextEligible(plan)
	if step == nil || step.ID != 1 {
		t.Fatalf("single-step plan should always offer its step, got %v", step)
	}
}
