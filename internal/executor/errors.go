package executor

import "fmt"

// ExecutorError indicates the step-executor backend returned no content or
// its transport failed. Fatal to the current run; the partially-completed
// plan is left with its per-step statuses for the caller to surface.
type ExecutorError struct {
	Reason string
	Err    error
}

func (e *ExecutorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step executor: %s: %v", e.Reason, e.Err)
	}
	return "step executor: " + e.Reason
}

func (e *ExecutorError) Unwrap() error {
	return e.Err
}

// IndexError indicates a status update targeted a step index outside the
// plan. This is an internal invariant violation, not a user-facing failure.
type IndexError struct {
	Index int
	Total int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("step index %d out of range [0, %d)", e.Index, e.Total)
}
