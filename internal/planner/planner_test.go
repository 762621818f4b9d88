package planner

import (
	"errors"
	"fmt"
	"testing"

	"github.com/avendel/stepflow/internal/types"
)

func TestSynthesizeValidJSON(t *testing.T) {
	raw := `{"steps":[
		{"description":"Set up project","dependencies":[]},
		{"description":"Write code","dependencies":[]},
		{"description":"Add tests","dependencies":[]}
	]}`

	plan, err := Synthesize(raw, "build a CLI")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if plan.TotalSteps != 3 {
		t.Errorf("TotalSteps = %d, want 3", plan.TotalSteps)
	}
	if plan.CurrentStep != 0 {
		t.Errorf("CurrentStep = %d, want 0", plan.CurrentStep)
	}
	for i, step := range plan.Steps {
		if step.Status != types.StatusPending {
			t.Errorf("steps[%d].Status = %q, want pending", i, step.Status)
		}
		if step.ID != i+1 {
			t.Errorf("steps[%d].ID = %d, want %d", i, step.ID, i+1)
		}
		if step.Files == nil {
			t.Errorf("steps[%d].Files should be initialized empty, got nil", i)
		}
	}
	if plan.Request != "build a CLI" {
		t.Errorf("Request = %q, want the original request", plan.Request)
	}
	if plan.Description != "Task plan for: build a CLI" {
		t.Errorf("Description = %q", plan.Description)
	}
	if plan.EstimatedTime != "15 minutes" {
		t.Errorf("EstimatedTime = %q, want %q", plan.EstimatedTime, "15 minutes")
	}
}

func TestSynthesizeFencedJSON(t *testing.T) {
	raw := "```json\n{\"steps\":[{\"description\":\"Only step\"}]}\n```"

	plan, err := Synthesize(raw, "req")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if plan.TotalSteps != 1 {
		t.Errorf("TotalSteps = %d, want 1", plan.TotalSteps)
	}
	if plan.Steps[0].Description != "Only step" {
		t.Errorf("Description = %q", plan.Steps[0].Description)
	}
}

func TestSynthesizeFallbackLines(t *testing.T) {
	raw := "Here's my plan:\n1. Set up project\n2. Add tests"

	plan, err := Synthesize(raw, "req")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if plan.TotalSteps != 2 {
		t.Fatalf("TotalSteps = %d, want 2 (filler line dropped)", plan.TotalSteps)
	}
	if plan.Steps[0].Description != "1. Set up project" {
		t.Errorf("steps[0].Description = %q, want the verbatim line", plan.Steps[0].Description)
	}
	if plan.Steps[1].Description != "2. Add tests" {
		t.Errorf("steps[1].Description = %q, want the verbatim line", plan.Steps[1].Description)
	}
	for i, step := range plan.Steps {
		if len(step.Dependencies) != 0 {
			t.Errorf("steps[%d].Dependencies = %v, want empty", i, step.Dependencies)
		}
	}
}

func TestSynthesizeAllFillerFails(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "empty input",
			raw:  "",
		},
		{
			name: "blank lines only",
			raw:  "\n\n   \n",
		},
		{
			name: "conversational filler only",
			raw:  "Here is what I would do\nI will start by thinking\n```\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(tt.raw, "req")
			if err == nil {
				t.Fatal("expected SynthesisError, got nil")
			}
			var synthErr *SynthesisError
			if !errors.As(err, &synthErr) {
				t.Errorf("error type = %T, want *SynthesisError", err)
			}
		})
	}
}

func TestSynthesizeDependencyConversion(t *testing.T) {
	raw := `{"steps":[
		{"description":"A","dependencies":[]},
		{"description":"B","dependencies":[1]}
	]}`

	plan, err := Synthesize(raw, "req")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	// 1-based "[1]" refers to step A, stored as 0-based index 0
	deps := plan.Steps[1].Dependencies
	if len(deps) != 1 || deps[0] != 0 {
		t.Errorf("steps[1].Dependencies = %v, want [0]", deps)
	}
}

func TestSynthesizeDropsInvalidDependencies(t *testing.T) {
	tests := []struct {
		name string
		deps string
		want []int
	}{
		{
			name: "out of range high",
			deps: "[99]",
			want: []int{},
		},
		{
			name: "zero converts to -1 and is dropped",
			deps: "[0]",
			want: []int{},
		},
		{
			name: "negative",
			deps: "[-3]",
			want: []int{},
		},
		{
			name: "self reference",
			deps: "[2]",
			want: []int{},
		},
		{
			name: "mixed valid and invalid",
			deps: "[1, 99, 0]",
			want: []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fmt.Sprintf(`{"steps":[
				{"description":"A"},
				{"description":"B","dependencies":%s}
			]}`, tt.deps)

			plan, err := Synthesize(raw, "req")
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			deps := plan.Steps[1].Dependencies
			if len(deps) != len(tt.want) {
				t.Fatalf("Dependencies = %v, want %v", deps, tt.want)
			}
			for i := range deps {
				if deps[i] != tt.want[i] {
					t.Errorf("Dependencies = %v, want %v", deps, tt.want)
				}
			}
		})
	}
}

func TestSynthesizeStringDependencies(t *testing.T) {
	raw := `{"steps":[
		{"description":"A"},
		{"description":"B","dependencies":["1"]}
	]}`

	plan, err := Synthesize(raw, "req")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	deps := plan.Steps[1].Dependencies
	if len(deps) != 1 || deps[0] != 0 {
		t.Errorf("Dependencies = %v, want [0] (numeric string coerced)", deps)
	}
}

func TestSynthesizeSkipsInvalidEntries(t *testing.T) {
	raw := `{"steps":[
		{"description":"   "},
		{"description":"Real step"},
		{"dependencies":[1]},
		"not an object"
	]}`

	plan, err := Synthesize(raw, "req")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if plan.TotalSteps != 1 {
		t.Fatalf("TotalSteps = %d, want 1 (invalid entries skipped)", plan.TotalSteps)
	}
	if plan.Steps[0].Description != "Real step" {
		t.Errorf("Description = %q", plan.Steps[0].Description)
	}
}

func TestSynthesizeEmptyStepsArray(t *testing.T) {
	// A well-formed steps array counts as a strict parse even when empty,
	// so the fallback never sees the text and synthesis fails outright.
	_, err := Synthesize(`{"steps":[]}`, "req")
	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("error = %v, want *SynthesisError", err)
	}
}

func TestSynthesizeNonObjectJSONFallsBack(t *testing.T) {
	// Arrays and scalars are parse failures, not crashes
	plan, err := Synthesize(`["just", "an", "array"]`, "req")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	// Fallback treats the raw text as lines
	if plan.TotalSteps != 1 {
		t.Errorf("TotalSteps = %d, want 1", plan.TotalSteps)
	}
}

func TestSynthesizeEstimateOverride(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "string estimate kept",
			raw:  `{"steps":[{"description":"A"}],"estimatedTime":"about an hour"}`,
			want: "about an hour",
		},
		{
			name: "numeric estimate formatted",
			raw:  `{"steps":[{"description":"A"}],"estimatedTime":30}`,
			want: "30 minutes",
		},
		{
			name: "missing estimate derived from step count",
			raw:  `{"steps":[{"description":"A"},{"description":"B"}]}`,
			want: "10 minutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Synthesize(tt.raw, "req")
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			if plan.EstimatedTime != tt.want {
				t.Errorf("EstimatedTime = %q, want %q", plan.EstimatedTime, tt.want)
			}
		})
	}
}

func TestSynthesizeDescriptionOverride(t *testing.T) {
	raw := `{"steps":[{"description":"A"}],"description":"Ship the widget"}`
	plan, err := Synthesize(raw, "req")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if plan.Description != "Ship the widget" {
		t.Errorf("Description = %q, want the supplied one", plan.Description)
	}
}

func TestSynthesizedPlanValidates(t *testing.T) {
	raw := `{"steps":[
		{"description":"A"},
		{"description":"B","dependencies":[1]},
		{"description":"C","dependencies":[1,2]}
	]}`
	plan, err := Synthesize(raw, "req")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if err := plan.Validate(); err != nil {
		t.Errorf("synthesized plan failed validation: %v", err)
	}
}
