// Package cli handles the command-line interface logic using Cobra.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the main "root" command and attaches all sub-commands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docflow",
		Short: "docflow - pipeline engine for moving documents between collections",
		Long: `docflow schedules and executes data-movement pipelines that copy and
transform documents from a source document store to a destination document
store, recording execution metadata for every run.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewCreateCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewEnableCmd())
	rootCmd.AddCommand(NewDisableCmd())
	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewExecutionsCmd())
	rootCmd.AddCommand(NewWorkerCmd())

	return rootCmd
}
