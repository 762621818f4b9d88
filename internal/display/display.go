// Package display provides unified output formatting for the stepflow CLI.
// It renders plan state and run progress; it also implements the engine's
// progress sink so the terminal updates after every status change.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/avendel/stepflow/internal/types"
)

// Display handles all CLI output with visual hierarchy
type Display struct {
	theme     *Theme
	termWidth int
	noColor   bool
}

// New creates a new Display instance
func New() *Display {
	return NewWithOptions(false)
}

// NewWithOptions creates a Display with configuration
func NewWithOptions(noColor bool) *Display {
	d := &Display{
		termWidth: getTerminalWidth(),
		noColor:   noColor,
	}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

// getTerminalWidth returns the terminal width, defaulting to 80
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120 // Cap at 120 for readability
	}
	return width
}

// Box prints a boxed message with a title
func (d *Display) Box(title string, lines ...string) {
	if len(lines) == 0 {
		return
	}

	width := d.termWidth - 2
	titleLen := len(title) + 4 // "─ TITLE "
	remainingWidth := width - titleLen
	if remainingWidth < 0 {
		remainingWidth = 0
	}

	topLine := BoxTopLeft + BoxHorizontal + " " + title + " " + strings.Repeat(BoxHorizontal, remainingWidth) + BoxTopRight
	fmt.Println(d.theme.Border(topLine))

	for _, line := range lines {
		padded := d.padRight(line, width-2)
		fmt.Println(d.theme.Border(BoxVertical) + " " + d.theme.Text(padded) + " " + d.theme.Border(BoxVertical))
	}

	bottomLine := BoxBottomLeft + strings.Repeat(BoxHorizontal, width) + BoxBottomRight
	fmt.Println(d.theme.Border(bottomLine))
}

// StatusLine prints a single timestamped status line
func (d *Display) StatusLine(symbol, message string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n",
		d.theme.Dim(timestamp),
		symbol,
		d.theme.Text(message))
}

// Success prints a success message with green checkmark
func (d *Display) Success(message string) {
	d.StatusLine(d.theme.Success(SymbolSuccess), message)
}

// Error prints an error message with red X
func (d *Display) Error(message string) {
	d.StatusLine(d.theme.Error(SymbolError), message)
}

// Warning prints a warning message with yellow triangle
func (d *Display) Warning(message string) {
	d.StatusLine(d.theme.Warning(SymbolWarning), message)
}

// Info prints a labeled info message
func (d *Display) Info(label, message string) {
	d.StatusLine(d.theme.Info(label+":"), message)
}

// Plan renders a full plan as a step list with status icons
func (d *Display) Plan(plan *types.Plan) {
	fmt.Println()
	fmt.Println(d.theme.Bold(plan.Description))
	if plan.EstimatedTime != "" {
		fmt.Println(d.theme.Dim("Estimated: " + plan.EstimatedTime))
	}
	fmt.Println()
	for i := range plan.Steps {
		d.stepLine(&plan.Steps[i])
	}
	fmt.Println()
}

// OnProgress implements the engine's progress sink
func (d *Display) OnProgress(snap types.PlanSnapshot) {
	done := 0
	for i := range snap.Steps {
		if snap.Steps[i].Status == types.StatusCompleted {
			done++
		}
	}

	for i := range snap.Steps {
		step := &snap.Steps[i]
		if step.Status == types.StatusInProgress {
			d.StatusLine(d.theme.Info(SymbolActive),
				fmt.Sprintf("Step %d/%d: %s", step.ID, snap.TotalSteps, step.Description))
			return
		}
		if step.Status == types.StatusFailed {
			d.StatusLine(d.theme.Error(SymbolError),
				fmt.Sprintf("Step %d/%d failed: %s", step.ID, snap.TotalSteps, step.Description))
			return
		}
	}

	// No active or failed step: a completion advanced the plan
	d.StatusLine(d.theme.Success(SymbolSuccess),
		fmt.Sprintf("Progress: %d/%d steps complete", done, snap.TotalSteps))
}

func (d *Display) stepLine(step *types.Step) {
	icon := step.Status.Icon()
	switch step.Status {
	case types.StatusCompleted:
		icon = d.theme.Success(icon)
	case types.StatusFailed:
		icon = d.theme.Error(icon)
	case types.StatusInProgress:
		icon = d.theme.Info(icon)
	default:
		icon = d.theme.Dim(icon)
	}

	line := fmt.Sprintf("%s Step %d: %s", icon, step.ID, step.Description)
	if len(step.Dependencies) > 0 {
		refs := make([]string, len(step.Dependencies))
		for i, dep := range step.Dependencies {
			refs[i] = fmt.Sprintf("%d", dep+1)
		}
		line += d.theme.Dim(fmt.Sprintf("  (after %s)", strings.Join(refs, ", ")))
	}
	fmt.Println(line)
}

func (d *Display) padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
