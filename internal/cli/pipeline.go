package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"docflow/internal/config"
	"docflow/internal/etl"
)

// NewCreateCmd creates the "create" sub-command, which registers a new
// pipeline definition from a JSON file.
func NewCreateCmd() *cobra.Command {
	var definitionFile string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pipeline definition from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(definitionFile)
		},
	}

	createCmd.Flags().StringVarP(&definitionFile, "file", "f", "", "Path to the pipeline definition JSON file")
	createCmd.MarkFlagRequired("file")

	return createCmd
}

func runCreate(definitionFile string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	def, err := config.LoadDefinition(definitionFile)
	if err != nil {
		return err
	}
	if err := etl.ValidateDefinition(def); err != nil {
		return err
	}

	if err := env.db.CreateDefinition(cmdContext(), def); err != nil {
		return err
	}

	fmt.Printf("Created pipeline %d (%s)\n", def.ID, def.Name)
	return nil
}

// NewListCmd creates the "list" sub-command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all pipeline definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func runList() error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	defs, err := env.db.ListDefinitions(cmdContext())
	if err != nil {
		return err
	}

	if len(defs) == 0 {
		fmt.Println("No pipelines defined.")
		return nil
	}
	for _, def := range defs {
		state := "disabled"
		if def.IsEnabled && def.IsActive {
			state = "enabled"
		}
		fmt.Printf("%d\t%s\t%s -> %s\t%s\t%s\n",
			def.ID, def.Name,
			def.SourceCollection, def.DestinationCollection,
			def.LoadType, state)
	}
	return nil
}

// NewEnableCmd creates the "enable" sub-command.
func NewEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <pipeline-id>",
		Short: "Enable a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetEnabled(args[0], true)
		},
	}
}

// NewDisableCmd creates the "disable" sub-command.
func NewDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <pipeline-id>",
		Short: "Disable a pipeline so triggers reject it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetEnabled(args[0], false)
		},
	}
}

func runSetEnabled(rawID string, enabled bool) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid pipeline id %q: %w", rawID, err)
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.db.SetEnabled(cmdContext(), id, enabled); err != nil {
		return err
	}

	if enabled {
		fmt.Printf("Pipeline %d enabled.\n", id)
	} else {
		fmt.Printf("Pipeline %d disabled.\n", id)
	}
	return nil
}
