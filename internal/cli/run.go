package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// errRunFailed maps a failed execution to a non-zero exit code in main while
// still unwinding the deferred cleanup (store close, log flush).
var errRunFailed = errors.New("pipeline execution failed")

// NewRunCmd creates the "run" sub-command: the manual trigger for one
// pipeline execution. The result is printed as JSON.
func NewRunCmd() *cobra.Command {
	var pipelineID int64

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Trigger one pipeline execution and wait for the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(pipelineID)
		},
	}

	runCmd.Flags().Int64Var(&pipelineID, "id", 0, "ID of the pipeline to run")
	runCmd.MarkFlagRequired("id")

	return runCmd
}

func runPipeline(pipelineID int64) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	result := env.newRunner().Execute(cmdContext(), pipelineID)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if result.Status != "success" {
		return errRunFailed
	}
	return nil
}

// NewExecutionsCmd creates the "executions" sub-command listing the run
// history of one pipeline.
func NewExecutionsCmd() *cobra.Command {
	var pipelineID int64

	executionsCmd := &cobra.Command{
		Use:   "executions",
		Short: "Show the execution history of a pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecutions(pipelineID)
		},
	}

	executionsCmd.Flags().Int64Var(&pipelineID, "id", 0, "ID of the pipeline")
	executionsCmd.MarkFlagRequired("id")

	return executionsCmd
}

func runExecutions(pipelineID int64) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	recs, err := env.db.ListExecutions(cmdContext(), pipelineID)
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("No executions recorded.")
		return nil
	}
	for _, rec := range recs {
		duration := "-"
		if rec.DurationSeconds != nil {
			duration = fmt.Sprintf("%.2fs", *rec.DurationSeconds)
		}
		rows := "-"
		if rec.RowsProcessed != nil {
			rows = fmt.Sprintf("%d", *rec.RowsProcessed)
		}
		fmt.Printf("%s\t%s\t%s\trows=%s\tduration=%s\t%s\n",
			rec.CreatedAt.Format(time.RFC3339),
			rec.ExecutionID, rec.Status, rows, duration, rec.ErrorMessage)
	}
	return nil
}
