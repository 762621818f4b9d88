package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avendel/stepflow/internal/config"
	"github.com/avendel/stepflow/internal/display"
	"github.com/avendel/stepflow/internal/executor"
	"github.com/avendel/stepflow/internal/llm"
	"github.com/avendel/stepflow/internal/logs"
	"github.com/avendel/stepflow/internal/planner"
	"github.com/avendel/stepflow/internal/prompts"
	"github.com/avendel/stepflow/internal/shell"
	"github.com/avendel/stepflow/internal/store"
	"github.com/avendel/stepflow/internal/workspace"
)

var (
	runModel     string
	runNoHistory bool
)

var runCmd = &cobra.Command{
	Use:   "run <request>",
	Short: "Synthesize a plan for the request and execute it",
	Long: `Synthesize a plan for the request and execute it step by step.

Each step is handed to the model executor; commands and file operations
embedded in its response are applied to the workspace. The run stops at
the first failure; re-run the request to try again.

Examples:
  stepflow run "add a healthcheck endpoint"
  stepflow run --model opus "refactor the storage layer"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := strings.TrimSpace(strings.Join(args, " "))
		if request == "" {
			return fmt.Errorf("request must not be empty")
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg, err := config.Load(cwd)
		if err != nil {
			return err
		}
		if runModel != "" {
			cfg.LLM.Model = runModel
		}

		disp := display.NewWithOptions(noColor || cfg.Display.NoColor)
		logger := logs.Get(cwd)
		backend := llm.NewClaude(cfg.LLM.Binary)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// Plan
		disp.Info("Planning", request)
		raw, err := backend.Execute(ctx, llm.ExecuteOptions{
			Prompt:  prompts.Planning(request),
			Model:   cfg.LLM.Model,
			WorkDir: cwd,
		})
		if err != nil {
			return fmt.Errorf("planning call failed: %w", err)
		}

		plan, err := planner.Synthesize(raw, request)
		if err != nil {
			return err
		}
		disp.Plan(plan)

		// Execute
		engine := executor.New(executor.Config{
			Backend:        backend,
			Runner:         shell.NewExecRunner(),
			Applier:        workspace.NewDirApplier(cwd),
			Sink:           disp,
			Logger:         logger,
			Model:          cfg.LLM.Model,
			WorkDir:        cwd,
			ContextSummary: readContextSummary(cwd, cfg.Run.ContextFile),
			StepDelay:      time.Duration(cfg.Run.StepDelaySeconds) * time.Second,
		})

		started := time.Now()
		runErr := engine.Run(ctx, plan)

		if !runNoHistory && !cfg.History.Disabled {
			if st, err := store.Open(filepath.Join(cwd, cfg.History.Path)); err == nil {
				if _, err := st.RecordRun(plan, runErr, started); err != nil {
					disp.Warning(fmt.Sprintf("could not record run: %v", err))
				}
				st.Close()
			} else {
				disp.Warning(fmt.Sprintf("could not open history: %v", err))
			}
		}

		if runErr != nil {
			disp.Error(fmt.Sprintf("Run stopped: %v", runErr))
			disp.Info("Progress", fmt.Sprintf("%d/%d steps completed", plan.CompletedCount(), plan.TotalSteps))
			return runErr
		}

		disp.Success(fmt.Sprintf("All %d steps complete (%s)", plan.TotalSteps, time.Since(started).Round(time.Second)))
		return nil
	},
}

// readContextSummary loads the workspace context file, if any. The summary
// is opaque to the engine; a missing file just means no context.
func readContextSummary(workDir, contextFile string) string {
	if contextFile == "" {
		return ""
	}
	path := contextFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, contextFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func init() {
	runCmd.Flags().StringVar(&runModel, "model", "", "model to use (overrides config)")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "skip recording this run")
	rootCmd.AddCommand(runCmd)
}
