package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

func sampleSummaries() []model.SessionSummary {
	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := int64(42)
	return []model.SessionSummary{
		{
			SessionID:        "session-a",
			FileName:         "42_aaaa.jsonl",
			NumericID:        &n,
			InteractionCount: 3,
			StartTime:        &t1,
			Summary:          "Fix the\nparser",
		},
		{
			SessionID:        "session-b",
			FileName:         "other.jsonl",
			InteractionCount: 1,
		},
	}
}

func TestWriteSummariesPlain(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, writeSummaries(&buf, sampleSummaries(), "plain")).Required()

	expected := strings.Join([]string{
		"session_id\tstart_time\tinteractions\tsummary",
		"session-a\t2025-06-01T12:00:00Z\t3\tFix the\\nparser",
		"session-b\t-\t1\t",
	}, "\n") + "\n"
	gt.Value(t, buf.String()).Equal(expected)
}

func TestWriteSummariesTable(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, writeSummaries(&buf, sampleSummaries(), "table")).Required()

	out := buf.String()
	gt.Bool(t, strings.Contains(out, "session-a")).True()
	gt.Bool(t, strings.Contains(out, "42")).True()
	gt.Bool(t, strings.Contains(out, "Session ID")).True()
}

func TestWriteSummariesTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, writeSummaries(&buf, nil, "table")).Required()
	gt.Bool(t, strings.Contains(buf.String(), "(no sessions)")).True()
}

func TestWriteSummaries_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	gt.Error(t, writeSummaries(&buf, nil, "yaml"))
}
