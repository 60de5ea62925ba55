package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemosyne/pkg/repository/jsonltask"
	"github.com/secmon-lab/mnemosyne/pkg/repository/memory"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `sessions_dir = "/var/log/sessions"
tasks_file = "/var/lib/tasks.jsonl"
addr = "127.0.0.1:9000"
`
	gt.NoError(t, os.WriteFile(path, []byte(body), 0600)).Required()

	cfg, err := LoadFile(path)
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.SessionsDir).Equal("/var/log/sessions")
	gt.Value(t, cfg.TasksFile).Equal("/var/lib/tasks.jsonl")
	gt.Value(t, cfg.Addr).Equal("127.0.0.1:9000")
}

func TestLoadFile_EmptyPath(t *testing.T) {
	cfg, err := LoadFile("")
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.SessionsDir).Equal("")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "no-such.toml"))
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, ErrConfigNotFound)).True()
}

func TestFallback(t *testing.T) {
	gt.Value(t, fallback("flag", "file", "def")).Equal("flag")
	gt.Value(t, fallback("", "file", "def")).Equal("file")
	gt.Value(t, fallback("", "", "def")).Equal("def")
}

func TestRepositoryConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		cfg := Repository{backend: "memory"}
		repo, err := cfg.Configure(ctx, "")
		gt.NoError(t, err).Required()
		_, ok := repo.(*memory.Repository)
		gt.Bool(t, ok).True()
	})

	t.Run("jsonl backend", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.jsonl")
		cfg := Repository{backend: "jsonl", tasksFile: path}
		repo, err := cfg.Configure(ctx, "")
		gt.NoError(t, err).Required()
		_, ok := repo.(*jsonltask.Repository)
		gt.Bool(t, ok).True()
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := Repository{backend: "postgres"}
		_, err := cfg.Configure(ctx, "")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, ErrInvalidConfig)).True()
	})
}

func TestLoggerConfigure(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Logger{level: "info", format: "console", output: "stdout"}
		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := Logger{level: "verbose"}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		cfg := Logger{level: "info", format: "xml"}
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("log value hides the DSN", func(t *testing.T) {
		cfg := Logger{level: "info", format: "json", output: "stderr", sentryDSN: "https://secret@sentry.example/1"}
		rendered := cfg.LogValue().String()
		gt.Bool(t, strings.Contains(rendered, "secret")).False()
		gt.Bool(t, strings.Contains(rendered, "sentry=true")).True()
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		cfg := Logger{level: "debug", format: "json", output: path}
		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()
		closer()

		_, err = os.Stat(path)
		gt.NoError(t, err)
	})
}
