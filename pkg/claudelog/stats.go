package claudelog

import (
	"time"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

// editToolNames are tools that modify files in the workspace
var editToolNames = map[string]struct{}{
	"Edit":         {},
	"MultiEdit":    {},
	"Write":        {},
	"NotebookEdit": {},
}

// checkToolNames are tools used to inspect or verify rather than modify
var checkToolNames = map[string]struct{}{
	"Bash": {},
	"Read": {},
	"Grep": {},
	"Glob": {},
}

// Duration returns the time between the interaction's own timestamp and its
// last timestamped action. Not every action carries a timestamp, so the
// scan walks backwards to the last one that does; ok is false when none do.
func Duration(interaction *model.Interaction) (d time.Duration, ok bool) {
	if interaction.Timestamp.IsZero() {
		return 0, false
	}
	for i := len(interaction.Actions) - 1; i >= 0; i-- {
		if ts := interaction.Actions[i].Timestamp; ts != nil && !ts.IsZero() {
			return ts.Sub(interaction.Timestamp), true
		}
	}
	return 0, false
}

// EditCount returns the number of file-editing tool calls in the interaction.
func EditCount(interaction *model.Interaction) int {
	return countTools(interaction, editToolNames)
}

// CheckCount returns the number of inspection tool calls in the interaction.
func CheckCount(interaction *model.Interaction) int {
	return countTools(interaction, checkToolNames)
}

func countTools(interaction *model.Interaction, names map[string]struct{}) int {
	count := 0
	for _, action := range interaction.Actions {
		if action.Type != model.ActionTypeToolUse {
			continue
		}
		if _, ok := names[action.ToolName]; ok {
			count++
		}
	}
	return count
}
