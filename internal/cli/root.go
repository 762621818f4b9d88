package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "stepflow",
	Short: "Turn a request into a dependency-ordered plan and execute it",
	Long: `Stepflow turns a free-form request into a dependency-ordered plan of
discrete steps, then drives execution one step at a time, tracking
per-step status and surfacing results.

Get started:
  stepflow init               Initialize a workspace
  stepflow plan "request"     Synthesize a plan without executing it
  stepflow run "request"      Plan and execute
  stepflow history            Show past runs`,
	Version: version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.SetVersionTemplate(fmt.Sprintf("stepflow version %s\n", version))
}
