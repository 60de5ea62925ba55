package config

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/service/sessions"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Sessions holds CLI flags for the session log directory
type Sessions struct {
	dir string
}

// Flags returns CLI flags for sessions configuration
func (x *Sessions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sessions-dir",
			Usage:       "Directory containing session log files (*.jsonl)",
			Sources:     cli.EnvVars("MNEMOSYNE_SESSIONS_DIR"),
			Destination: &x.dir,
		},
	}
}

// Dir returns the configured sessions directory
func (x *Sessions) Dir() string {
	return x.dir
}

// Configure validates the directory, builds a session store and warms its
// cache. Per-file load failures are logged inside Warm and do not fail
// startup.
func (x *Sessions) Configure(ctx context.Context, fromFile string) (*sessions.Store, error) {
	dir := fallback(x.dir, fromFile, "")
	if dir == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "sessions-dir is required")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to stat sessions directory", goerr.V("dir", dir))
	}
	if !info.IsDir() {
		return nil, goerr.Wrap(ErrInvalidConfig, "sessions-dir is not a directory", goerr.V("dir", dir))
	}

	store := sessions.New(dir)
	loaded, err := store.Warm(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load sessions directory", goerr.V("dir", dir))
	}
	logging.Default().Info("Loaded session directory", "dir", dir, "sessions", loaded)

	return store, nil
}
