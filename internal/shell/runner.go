// Package shell runs the commands a step response embeds. Commands execute
// through bash so responses can use pipes and multi-line scripts.
package shell

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Options adjusts how a single command runs
type Options struct {
	WorkDir     string
	Description string
}

// Runner executes one command and returns its combined output
type Runner interface {
	Run(ctx context.Context, command string, opts Options) (string, error)
}

// CommandError indicates a command exited unsuccessfully. The captured
// output is kept so the caller can surface what went wrong.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed: %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands via bash -c
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns its combined stdout/stderr output.
// A non-zero exit is returned as a *CommandError.
func (r *ExecRunner) Run(ctx context.Context, command string, opts Options) (string, error) {
	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = opts.WorkDir

	output, err := cmd.CombinedOutput()
	result := strings.TrimSpace(string(output))
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, &CommandError{Command: command, Output: result, Err: err}
	}

	return result, nil
}
