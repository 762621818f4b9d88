package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avendel/stepflow/internal/config"
	"github.com/avendel/stepflow/internal/display"
	"github.com/avendel/stepflow/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs",
	Long: `List recorded runs, newest first. Pass a run id to show the
per-step outcomes of that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg, err := config.Load(cwd)
		if err != nil {
			return err
		}
		if cfg.History.Disabled {
			return fmt.Errorf("history is disabled in config")
		}

		st, err := store.Open(filepath.Join(cwd, cfg.History.Path))
		if err != nil {
			return err
		}
		defer st.Close()

		disp := display.NewWithOptions(noColor || cfg.Display.NoColor)

		if len(args) == 1 {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			steps, err := st.RunSteps(runID)
			if err != nil {
				return err
			}
			if len(steps) == 0 {
				disp.Info("History", fmt.Sprintf("no steps recorded for run %d", runID))
				return nil
			}
			lines := make([]string, 0, len(steps))
			for _, s := range steps {
				line := fmt.Sprintf("%d. [%s] %s", s.StepID, s.Status, s.Description)
				if len(s.Files) > 0 {
					line += " (" + strings.Join(s.Files, ", ") + ")"
				}
				lines = append(lines, line)
			}
			disp.Box(fmt.Sprintf("Run %d", runID), lines...)
			return nil
		}

		runs, err := st.RecentRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			disp.Info("History", "no runs recorded yet")
			return nil
		}
		lines := make([]string, 0, len(runs))
		for _, r := range runs {
			line := fmt.Sprintf("#%d  %s  %d/%d  %s  %s",
				r.ID, r.Status, r.Completed, r.TotalSteps,
				r.StartedAt.Format("2006-01-02 15:04"), r.Request)
			if r.Error != "" {
				line += fmt.Sprintf(" (%s)", r.Error)
			}
			lines = append(lines, line)
		}
		disp.Box("Recent Runs", lines...)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
