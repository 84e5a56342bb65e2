package cli

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"docflow/internal/config"
	"docflow/internal/etl"
	"docflow/internal/runner"
	"docflow/internal/store"
	"docflow/pkg/logger"
)

// appEnv bundles the collaborators every command needs: settings, logger and
// the metadata store.
type appEnv struct {
	cfg *config.Config
	log *zap.Logger
	db  *store.SQLite
}

func openEnv() (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := store.OpenSQLite(cfg.MetadataPath)
	if err != nil {
		return nil, err
	}

	return &appEnv{cfg: cfg, log: log, db: db}, nil
}

func (e *appEnv) close() {
	_ = e.log.Sync()
	_ = e.db.Close()
}

// cmdContext is the base context for one-shot commands.
func cmdContext() context.Context {
	return context.Background()
}

// signalContext is cancelled on SIGINT/SIGTERM; used by the worker command.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newRunner wires the execution tracker on top of the default connector
// registry. The registry is built once per process and only appended to.
func (e *appEnv) newRunner() *runner.Runner {
	pipeline := etl.NewPipeline(etl.NewRegistry(), e.log)
	return runner.New(e.db, e.db, pipeline, e.log)
}
