package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/avendel/stepflow/internal/config"
	"github.com/avendel/stepflow/internal/display"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter .stepflow configuration",
	Long: `Create the .stepflow directory in the current workspace with a
starter config.yaml and context.md. Edit context.md to describe the
project; its contents are included in every step prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		if err := config.WriteDefault(cwd, initForce); err != nil {
			return err
		}

		disp := display.NewWithOptions(noColor)
		disp.Success("Created .stepflow/config.yaml")
		disp.Info("Next", "edit .stepflow/context.md, then try: stepflow run \"your request\"")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
	rootCmd.AddCommand(initCmd)
}
