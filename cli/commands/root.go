// Package commands implements the cpql command line interface.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/cpql-go/cli/internal/config"
	"github.com/satishbabariya/cpql-go/internal/debug"
)

var (
	debugFlag   bool
	noColorFlag bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cpql",
	Short: "Compile CPQL object queries to SQL",
	Long: `cpql compiles object-oriented CPQL queries into SQL for a target
database dialect, resolving entity and property names through a YAML
schema file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.Init(debugFlag)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if noColorFlag || cfg.NoColor {
			color.NoColor = true
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
