package types

import (
	"encoding/json"
	"fmt"
)

// Step represents one unit of planned work
type Step struct {
	ID           int      `json:"id"`                 // 1-based, assigned at synthesis time
	Description  string   `json:"description"`        // What the step does
	Status       Status   `json:"status"`             // Uses unified Status enum
	Dependencies []int    `json:"dependencies"`       // 0-based indices into the plan's step list
	Files        []string `json:"files"`              // Paths touched while executing this step
	Code         string   `json:"code,omitempty"`     // Raw code carried over from synthesis (rare)
	Command      string   `json:"command,omitempty"`  // Raw command carried over from synthesis (rare)
}

// Validate ensures the step is valid within a plan of totalSteps steps.
// index is the step's own position in the plan.
func (s *Step) Validate(index, totalSteps int) error {
	if s.Description == "" {
		return fmt.Errorf("step.description: field is required")
	}
	if s.Status == "" {
		s.Status = StatusPending // Default to pending
	}
	if !s.Status.IsValid() {
		return fmt.Errorf("step.status: invalid value %q, must be one of: %v", s.Status, AllStatuses())
	}
	for _, dep := range s.Dependencies {
		if dep < 0 || dep >= totalSteps {
			return fmt.Errorf("step.dependencies: index %d out of range [0, %d)", dep, totalSteps)
		}
		if dep == index {
			return fmt.Errorf("step.dependencies: step %d depends on itself", s.ID)
		}
	}
	return nil
}

// Plan represents the ordered set of steps derived from a single request,
// plus the execution cursor and metadata. A plan lives for exactly one run.
type Plan struct {
	Steps           []Step `json:"steps"`           // Order is significant
	CurrentStep     int    `json:"currentStep"`     // 0-based cursor, terminal value == TotalSteps
	TotalSteps      int    `json:"totalSteps"`      // len(Steps) at creation, fixed for the plan's lifetime
	Request         string `json:"request"`         // Verbatim user request
	OriginalRequest string `json:"originalRequest"` // Kept for context re-injection
	Description     string `json:"description"`     // Human-readable summary
	EstimatedTime   string `json:"estimatedTime"`   // Derived from step count unless synthesis supplied one
}

// Validate ensures the plan is internally consistent
func (p *Plan) Validate() error {
	if p.TotalSteps != len(p.Steps) {
		return fmt.Errorf("plan.totalSteps: %d does not match %d steps", p.TotalSteps, len(p.Steps))
	}
	if p.CurrentStep < 0 || p.CurrentStep > p.TotalSteps {
		return fmt.Errorf("plan.currentStep: %d out of range [0, %d]", p.CurrentStep, p.TotalSteps)
	}
	for i := range p.Steps {
		if err := p.Steps[i].Validate(i, p.TotalSteps); err != nil {
			return fmt.Errorf("plan.steps[%d]: %w", i, err)
		}
	}
	return nil
}

// CompletedCount returns the number of completed steps
func (p *Plan) CompletedCount() int {
	count := 0
	for i := range p.Steps {
		if p.Steps[i].Status == StatusCompleted {
			count++
		}
	}
	return count
}

// PlanSnapshot is an immutable copy of plan state handed to progress sinks.
// Sinks never receive a reference they can mutate.
type PlanSnapshot struct {
	CurrentStep int    `json:"currentStepIndex"`
	TotalSteps  int    `json:"totalSteps"`
	Steps       []Step `json:"steps"`
}

// Snapshot returns a deep copy of the plan's observable state
func (p *Plan) Snapshot() PlanSnapshot {
	steps := make([]Step, len(p.Steps))
	for i := range p.Steps {
		steps[i] = copyStep(&p.Steps[i])
	}
	return PlanSnapshot{
		CurrentStep: p.CurrentStep,
		TotalSteps:  p.TotalSteps,
		Steps:       steps,
	}
}

func copyStep(s *Step) Step {
	out := *s
	out.Dependencies = append([]int(nil), s.Dependencies...)
	out.Files = append([]string(nil), s.Files...)
	return out
}

// MarshalWire serializes the plan to its wire JSON, the form exchanged
// with the step executor so it can see prior step outcomes
func (p *Plan) MarshalWire() (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cannot marshal plan: %w", err)
	}
	return string(data), nil
}

// UnmarshalWire parses wire JSON back into a plan and validates it
func UnmarshalWire(data []byte) (*Plan, error) {
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("cannot decode plan JSON: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}
