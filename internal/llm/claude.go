package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/avendel/stepflow/internal/utils"
)

// Claude implements the Backend interface for the Claude Code CLI
type Claude struct {
	BinaryPath string
}

// NewClaude creates a new Claude backend
func NewClaude(binaryPath string) *Claude {
	if binaryPath == "" {
		binaryPath = "claude"
	}
	// Try to resolve the binary path
	resolved := utils.ResolveBinaryPath(binaryPath)
	return &Claude{BinaryPath: resolved}
}

func (c *Claude) Name() string {
	return "claude"
}

// Execute runs Claude in print mode and returns the collected text output
func (c *Claude) Execute(ctx context.Context, opts ExecuteOptions) (string, error) {
	args := c.buildArgs(opts)

	cmd := exec.CommandContext(ctx, c.BinaryPath, args...)
	cmd.Dir = opts.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(err.Error(), "executable file not found") {
			return "", utils.BinaryNotFoundError("claude")
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("claude call failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

func (c *Claude) buildArgs(opts ExecuteOptions) []string {
	var args []string

	// Skip permissions for autonomous execution
	args = append(args, "--dangerously-skip-permissions")

	// Model
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}

	// Print mode: single prompt in, full text response out
	args = append(args, "-p", opts.Prompt)
	args = append(args, "--output-format", "text")

	return args
}
