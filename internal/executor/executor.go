// Package executor drives a plan to completion one step at a time. Steps run
// strictly in plan order; the loop stops at the first unrecovered failure and
// performs no automatic retries.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avendel/stepflow/internal/llm"
	"github.com/avendel/stepflow/internal/logs"
	"github.com/avendel/stepflow/internal/prompts"
	"github.com/avendel/stepflow/internal/shell"
	"github.com/avendel/stepflow/internal/types"
	"github.com/avendel/stepflow/internal/workspace"
)

// defaultStepDelay paces the loop between steps. Not part of correctness;
// it keeps the backend from being hammered and gives the host time to render.
const defaultStepDelay = time.Second

// Sink receives plan snapshots after every status change. Purely
// observational; sinks get copies, never a reference they can mutate.
type Sink interface {
	OnProgress(snapshot types.PlanSnapshot)
}

// Config holds the engine's collaborators and tuning
type Config struct {
	Backend        llm.Backend
	Runner         shell.Runner
	Applier        workspace.Applier
	Sink           Sink
	Logger         *logs.Logger
	Model          string
	WorkDir        string
	ContextSummary string
	StepDelay      time.Duration
}

// Engine executes plans. One plan is owned by exactly one engine run for its
// entire lifetime; the plan is mutated in place, sinks only see snapshots.
type Engine struct {
	backend        llm.Backend
	runner         shell.Runner
	applier        workspace.Applier
	sink           Sink
	logger         *logs.Logger
	model          string
	workDir        string
	contextSummary string
	stepDelay      time.Duration
}

// New creates an engine from explicit collaborators. There is no ambient
// global client: every handle is passed in here.
func New(cfg Config) *Engine {
	return &Engine{
		backend:        cfg.Backend,
		runner:         cfg.Runner,
		applier:        cfg.Applier,
		sink:           cfg.Sink,
		logger:         cfg.Logger,
		model:          cfg.Model,
		workDir:        cfg.WorkDir,
		contextSummary: cfg.ContextSummary,
		stepDelay:      cfg.StepDelay,
	}
}

// Run drives the plan until completion, the first failure, or cancellation.
// On cancellation the in-flight step is NOT marked failed; the loop stops
// cleanly and returns the context's error.
func (e *Engine) Run(ctx context.Context, plan *types.Plan) error {
	if e.logger != nil {
		e.logger.RunStarted(plan.Request, plan.TotalSteps)
	}

	for plan.CurrentStep < plan.TotalSteps {
		if err := ctx.Err(); err != nil {
			return err
		}

		step, unmet := NextEligible(plan)
		if step == nil {
			// A blocked current step is a plan-construction defect: the
			// sequential cursor reached it before its dependencies ran.
			return fmt.Errorf("step %d is blocked: dependencies %s not completed",
				plan.CurrentStep+1, formatIndices(unmet))
		}

		index := plan.CurrentStep
		if err := e.transition(plan, index, types.StatusInProgress); err != nil {
			return err
		}

		if err := e.executeStep(ctx, plan, step); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if terr := e.transition(plan, index, types.StatusFailed); terr != nil {
				return terr
			}
			return err
		}

		if err := e.transition(plan, index, types.StatusCompleted); err != nil {
			return err
		}

		if plan.CurrentStep < plan.TotalSteps {
			if err := e.pause(ctx); err != nil {
				return err
			}
		}
	}

	e.logFinished(plan, nil)
	return nil
}

// executeStep performs one backend call and applies the commands and file
// operations its response embeds
func (e *Engine) executeStep(ctx context.Context, plan *types.Plan, step *types.Step) error {
	planJSON, err := prompts.SerializePlan(plan)
	if err != nil {
		return err
	}
	prompt := prompts.Step(e.contextSummary, planJSON, step.Description)

	if err := ctx.Err(); err != nil {
		return err
	}
	text, err := e.backend.Execute(ctx, llm.ExecuteOptions{
		Prompt:  prompt,
		Model:   e.model,
		WorkDir: e.workDir,
	})
	if err != nil {
		return &ExecutorError{Reason: "backend call failed", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return &ExecutorError{Reason: "empty response"}
	}

	for _, command := range llm.ExtractCommands(text) {
		if err := ctx.Err(); err != nil {
			return err
		}
		output, err := e.runner.Run(ctx, command, shell.Options{WorkDir: e.workDir})
		if e.logger != nil {
			e.logger.Command(command, output)
		}
		if err != nil {
			return err
		}
	}

	ops := llm.ExtractFileOps(text)
	if len(ops) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		summaries, err := e.applier.Apply(ops)
		for _, s := range summaries {
			step.Files = append(step.Files, s.Path)
			if e.logger != nil {
				e.logger.FileOp(s.Path, s.Created, s.Added, s.Removed)
			}
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// transition applies a status change and notifies the sink
func (e *Engine) transition(plan *types.Plan, index int, status types.Status) error {
	if err := ApplyStatus(plan, index, status); err != nil {
		return err
	}
	if e.logger != nil {
		step := &plan.Steps[index]
		e.logger.StepStatus(step.ID, step.Description, status.String())
	}
	if e.sink != nil {
		e.sink.OnProgress(plan.Snapshot())
	}
	return nil
}

// pause inserts the inter-step delay, bailing out early on cancellation
func (e *Engine) pause(ctx context.Context) error {
	delay := e.stepDelay
	if delay == 0 {
		delay = defaultStepDelay
	}
	if delay < 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *Engine) logFinished(plan *types.Plan, err error) {
	if e.logger != nil {
		e.logger.RunFinished(plan.CompletedCount(), plan.TotalSteps, err)
	}
}

func formatIndices(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = fmt.Sprintf("%d", idx+1)
	}
	return strings.Join(parts, ", ")
}
