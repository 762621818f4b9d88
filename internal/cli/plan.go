package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avendel/stepflow/internal/config"
	"github.com/avendel/stepflow/internal/display"
	"github.com/avendel/stepflow/internal/llm"
	"github.com/avendel/stepflow/internal/planner"
	"github.com/avendel/stepflow/internal/prompts"
)

var (
	planModel    string
	planJSON     bool
	planFromFile string
)

var planCmd = &cobra.Command{
	Use:   "plan <request>",
	Short: "Synthesize a plan without executing it",
	Long: `Synthesize a plan for the request and print it without executing
any steps. Useful for previewing what a run would do.

With --from-file the plan is synthesized from a saved model response
instead of making a model call, which is handy for debugging plan
parsing against captured output.`,
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
		if planModel != "" {
			cfg.LLM.Model = planModel
		}

		var raw string
		if planFromFile != "" {
			data, err := os.ReadFile(planFromFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", planFromFile, err)
			}
			raw = string(data)
		} else {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			backend := llm.NewClaude(cfg.LLM.Binary)
			raw, err = backend.Execute(ctx, llm.ExecuteOptions{
				Prompt:  prompts.Planning(request),
				Model:   cfg.LLM.Model,
				WorkDir: cwd,
			})
			if err != nil {
				return fmt.Errorf("planning call failed: %w", err)
			}
		}

		plan, err := planner.Synthesize(raw, request)
		if err != nil {
			return err
		}

		if planJSON {
			wire, err := plan.MarshalWire()
			if err != nil {
				return err
			}
			fmt.Println(wire)
			return nil
		}

		disp := display.NewWithOptions(noColor || cfg.Display.NoColor)
		disp.Plan(plan)
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planModel, "model", "", "model to use (overrides config)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the plan as JSON")
	planCmd.Flags().StringVar(&planFromFile, "from-file", "", "synthesize from a saved model response instead of calling the model")
	rootCmd.AddCommand(planCmd)
}
