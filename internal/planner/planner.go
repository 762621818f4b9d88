// Package planner turns the raw text a planning model returns into a
// validated execution plan. Model output is unreliable prose: the package
// first attempts a strict JSON parse, then falls back to best-effort line
// segmentation so a run never deadlocks on malformed formatting.
package planner

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/avendel/stepflow/internal/types"
)

// SynthesisError indicates that no usable steps could be extracted from the
// planner response by any strategy. No plan is produced; the caller should
// retry the request.
type SynthesisError struct {
	Reason string
}

func (e *SynthesisError) Error() string {
	return "plan synthesis failed: " + e.Reason
}

// minutesPerStep is the default estimate applied when the planning response
// does not supply its own estimate.
const minutesPerStep = 5

// conversational lead-ins the fallback parser treats as narrative filler
var fillerPrefixes = []string{"```", "Here", "I will"}

// rawPlan is the shape expected from a well-behaved planning response.
// Steps stay raw so one malformed entry cannot sink the whole parse.
type rawPlan struct {
	Steps         []json.RawMessage `json:"steps"`
	Description   string            `json:"description"`
	EstimatedTime any               `json:"estimatedTime"`
}

type rawStep struct {
	Description  string `json:"description"`
	Dependencies []any  `json:"dependencies"`
	Code         string `json:"code"`
	Command      string `json:"command"`
}

// pendingStep carries a normalized step plus its dependency references as
// written in the source text (1-based step numbers). Conversion and range
// filtering happen after the final step order is known.
type pendingStep struct {
	description string
	sourceDeps  []int
	code        string
	command     string
}

// Synthesize converts a planning response into a plan. The returned error is
// a *SynthesisError and occurs only when zero usable steps can be extracted.
func Synthesize(raw, request string) (*types.Plan, error) {
	cleaned := stripFences(raw)

	steps, description, estimate, strict := parseJSONPlan(cleaned)
	if !strict {
		steps = parseLines(raw)
	}
	if len(steps) == 0 {
		return nil, &SynthesisError{Reason: "no valid steps"}
	}

	total := len(steps)
	plan := &types.Plan{
		Steps:           make([]types.Step, 0, total),
		CurrentStep:     0,
		TotalSteps:      total,
		Request:         request,
		OriginalRequest: request,
		Description:     description,
		EstimatedTime:   estimate,
	}
	if plan.Description == "" {
		plan.Description = "Task plan for: " + request
	}
	if plan.EstimatedTime == "" {
		plan.EstimatedTime = fmt.Sprintf("%d minutes", total*minutesPerStep)
	}

	for i, ps := range steps {
		plan.Steps = append(plan.Steps, types.Step{
			ID:           i + 1,
			Description:  ps.description,
			Status:       types.StatusPending,
			Dependencies: normalizeDeps(ps.sourceDeps, i, total),
			Files:        []string{},
			Code:         ps.code,
			Command:      ps.command,
		})
	}

	return plan, nil
}

// stripFences removes markdown code-fence marker lines (```json, ```, etc.)
// while keeping the fenced content itself
func stripFences(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// parseJSONPlan attempts the strict strategy: the cleaned text must be a JSON
// object with a steps array. The final result reports whether that shape was
// present at all; when it was, the fallback parser is never consulted, even
// if every entry turned out unusable.
func parseJSONPlan(cleaned string) ([]pendingStep, string, string, bool) {
	var parsed rawPlan
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, "", "", false
	}
	if parsed.Steps == nil {
		return nil, "", "", false
	}

	var steps []pendingStep
	for _, entry := range parsed.Steps {
		step, ok := normalizeJSONStep(entry)
		if !ok {
			continue // Invalid entries are skipped, not fatal
		}
		steps = append(steps, step)
	}
	return steps, strings.TrimSpace(parsed.Description), coerceEstimate(parsed.EstimatedTime), true
}

func normalizeJSONStep(entry json.RawMessage) (pendingStep, bool) {
	var rs rawStep
	if err := json.Unmarshal(entry, &rs); err != nil {
		return pendingStep{}, false
	}
	description := strings.TrimSpace(rs.Description)
	if description == "" {
		return pendingStep{}, false
	}

	var deps []int
	for _, v := range rs.Dependencies {
		if n, ok := coerceStepNumber(v); ok {
			deps = append(deps, n)
		}
	}

	return pendingStep{
		description: description,
		sourceDeps:  deps,
		code:        rs.Code,
		command:     rs.Command,
	}, true
}

// coerceStepNumber accepts dependency values as JSON numbers or numeric
// strings, both of which models produce
func coerceStepNumber(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceEstimate(v any) string {
	switch e := v.(type) {
	case string:
		return strings.TrimSpace(e)
	case float64:
		return fmt.Sprintf("%d minutes", int(math.Ceil(e)))
	default:
		return ""
	}
}

// parseLines is the fallback strategy: each non-blank, non-filler line
// becomes one step with no dependencies
func parseLines(raw string) []pendingStep {
	var steps []pendingStep
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isFiller(line) {
			continue
		}
		steps = append(steps, pendingStep{description: line})
	}
	return steps
}

func isFiller(line string) bool {
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// normalizeDeps converts 1-based step numbers from the source text to 0-based
// indices, silently dropping anything outside [0, total) or the step's own
// index. Bad references are a plan defect, never a synthesis failure.
func normalizeDeps(sourceDeps []int, index, total int) []int {
	deps := make([]int, 0, len(sourceDeps))
	for _, d := range sourceDeps {
		idx := d - 1
		if idx < 0 || idx >= total || idx == index {
			continue
		}
		deps = append(deps, idx)
	}
	return deps
}
