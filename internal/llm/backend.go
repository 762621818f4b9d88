package llm

import (
	"context"
)

// Backend represents a step-executor backend: given a prompt it returns the
// text describing how one step was carried out
type Backend interface {
	// Name returns the backend name (e.g., "claude")
	Name() string

	// Execute runs the model with the given prompt and returns its full
	// text response
	Execute(ctx context.Context, opts ExecuteOptions) (string, error)
}

// ExecuteOptions contains options for a backend call
type ExecuteOptions struct {
	Prompt  string
	Model   string
	WorkDir string
}
