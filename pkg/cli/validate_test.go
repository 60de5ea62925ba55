package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("all lines parse", func(t *testing.T) {
		path := filepath.Join(dir, "good.jsonl")
		body := `{"type":"user","timestamp":"2025-06-01T10:00:00Z","message":{"role":"user","content":"hello"}}
{"type":"summary","summary":"greeting","leafUuid":"x"}
`
		gt.NoError(t, os.WriteFile(path, []byte(body), 0600)).Required()

		report := validateFile(path)
		gt.Value(t, report.entries).Equal(2)
		gt.Array(t, report.badLines).Length(0)
		gt.Value(t, report.readErr).Nil()
	})

	t.Run("broken line reported with its number", func(t *testing.T) {
		path := filepath.Join(dir, "bad.jsonl")
		body := `{"type":"user","message":{"role":"user","content":"ok"}}
{not json
{"type":"summary","summary":"s","leafUuid":"y"}
`
		gt.NoError(t, os.WriteFile(path, []byte(body), 0600)).Required()

		report := validateFile(path)
		gt.Value(t, report.entries).Equal(2)
		gt.Array(t, report.badLines).Equal([]int{2})
	})

	t.Run("missing file", func(t *testing.T) {
		report := validateFile(filepath.Join(dir, "no-such.jsonl"))
		gt.Value(t, report.readErr).NotNil()
	})
}
