package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"docflow/internal/worker"
)

// NewWorkerCmd creates the "worker" sub-command: it enqueues the given
// pipeline ids on the worker pool and waits until every run, including
// automatic retries, has finished.
func NewWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker <pipeline-id> [pipeline-id...]",
		Short: "Run pipelines through the worker pool with retry semantics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(args)
		},
	}
}

func runWorker(args []string) error {
	ids := make([]int64, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid pipeline id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := signalContext()
	defer cancel()

	pool := worker.NewPool(env.newRunner(), worker.Options{
		Workers:    env.cfg.WorkerCount,
		Retries:    env.cfg.TaskRetries,
		RetryDelay: env.cfg.RetryDelay,
		QueueSize:  env.cfg.QueueSize,
	}, env.log)
	pool.Start(ctx)

	for _, id := range ids {
		if err := pool.Enqueue(id); err != nil {
			return err
		}
	}

	pool.Stop()
	return nil
}
