package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemosyne/pkg/cli"
)

const validSession = `{"type":"user","sessionId":"S1","timestamp":"2025-06-01T10:00:00Z","message":{"role":"user","content":"hello"}}
{"type":"assistant","timestamp":"2025-06-01T10:00:05Z","message":{"role":"assistant","content":[{"type":"text","text":"hi"}]}}
`

func writeSessionDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "1_abc.jsonl"), []byte(validSession), 0600)).Required()
	return dir
}

func TestRun_ValidateCommand(t *testing.T) {
	dir := writeSessionDir(t)

	err := cli.Run(context.Background(), []string{"mnemosyne", "validate", "--sessions-dir", dir}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_MissingDir(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"mnemosyne", "validate", "--sessions-dir", filepath.Join(t.TempDir(), "no-such"),
	}, "test")
	gt.Error(t, err)
}

func TestRun_ListCommand(t *testing.T) {
	dir := writeSessionDir(t)

	err := cli.Run(context.Background(), []string{
		"mnemosyne", "list", "--sessions-dir", dir, "--format", "plain",
	}, "test")
	gt.NoError(t, err)
}

func TestRun_ListCommand_UnknownFormat(t *testing.T) {
	dir := writeSessionDir(t)

	err := cli.Run(context.Background(), []string{
		"mnemosyne", "list", "--sessions-dir", dir, "--format", "yaml",
	}, "test")
	gt.Error(t, err)
}

func TestRun_StatsCommand(t *testing.T) {
	dir := writeSessionDir(t)

	err := cli.Run(context.Background(), []string{
		"mnemosyne", "stats", "--sessions-dir", dir, "--task-backend", "memory",
	}, "test")
	gt.NoError(t, err)
}
