package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/repository/jsonltask"
	"github.com/secmon-lab/mnemosyne/pkg/repository/memory"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for task store configuration
type Repository struct {
	backend   string
	tasksFile string
}

// Flags returns CLI flags for task store configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "task-backend",
			Usage:       "Task store backend type (jsonl or memory)",
			Value:       "jsonl",
			Sources:     cli.EnvVars("MNEMOSYNE_TASK_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "tasks-file",
			Usage:       "Path to the tasks JSONL file (required when using jsonl backend)",
			Sources:     cli.EnvVars("MNEMOSYNE_TASKS_FILE"),
			Destination: &r.tasksFile,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes and returns a task repository based on the
// configured backend. The caller is responsible for calling Close() on the
// returned repository.
func (r *Repository) Configure(ctx context.Context, fromFile string) (interfaces.Repository, error) {
	switch r.backend {
	case "jsonl":
		path := fallback(r.tasksFile, fromFile, "tasks.jsonl")
		logging.Default().Info("Using JSONL task store", "path", path)
		return jsonltask.New(path), nil

	case "memory":
		logging.Default().Info("Using in-memory task store (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid task backend", goerr.V("backend", r.backend))
	}
}
