package claudelog_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemosyne/pkg/claudelog"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

func TestDuration(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	later := base.Add(42 * time.Second)

	t.Run("last timestamped action wins", func(t *testing.T) {
		interaction := &model.Interaction{
			Timestamp: base,
			Actions: []model.Action{
				{Type: model.ActionTypeToolUse, Timestamp: &later},
				{Type: model.ActionTypeAutoCompact}, // no timestamp
			},
		}
		d, ok := claudelog.Duration(interaction)
		gt.Bool(t, ok).True()
		gt.Value(t, d).Equal(42 * time.Second)
	})

	t.Run("no timestamped actions", func(t *testing.T) {
		interaction := &model.Interaction{
			Timestamp: base,
			Actions:   []model.Action{{Type: model.ActionTypeAutoCompact}},
		}
		_, ok := claudelog.Duration(interaction)
		gt.Bool(t, ok).False()
	})

	t.Run("no actions at all", func(t *testing.T) {
		interaction := &model.Interaction{Timestamp: base}
		_, ok := claudelog.Duration(interaction)
		gt.Bool(t, ok).False()
	})
}

func TestEditAndCheckCounts(t *testing.T) {
	interaction := &model.Interaction{
		Actions: []model.Action{
			{Type: model.ActionTypeToolUse, ToolName: "Edit"},
			{Type: model.ActionTypeToolUse, ToolName: "Write"},
			{Type: model.ActionTypeToolUse, ToolName: "Bash"},
			{Type: model.ActionTypeToolUse, ToolName: "Grep"},
			{Type: model.ActionTypeToolUse, ToolName: "WebSearch"},
			{Type: model.ActionTypeText, Text: "done"},
		},
	}

	gt.Value(t, claudelog.EditCount(interaction)).Equal(2)
	gt.Value(t, claudelog.CheckCount(interaction)).Equal(2)
}
