package claudelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// autoCompactPrefix marks a synthetic user message carrying the condensed
// summary of a conversation that ran out of context.
const autoCompactPrefix = "This session is being continued from a previous conversation that ran out of context."

var cancellationMessages = map[string]struct{}{
	"[Request interrupted by user]":              {},
	"[Request interrupted by user for tool use]": {},
}

func isAutoCompactMessage(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), autoCompactPrefix)
}

func isCancellationMessage(text string) bool {
	_, ok := cancellationMessages[strings.TrimSpace(text)]
	return ok
}

// isLocalCommandMessage reports whether the text was generated by a local
// command rather than typed by the human.
func isLocalCommandMessage(text string) bool {
	if strings.HasPrefix(text, "Caveat: The messages below were generated by the user while running local commands") {
		return true
	}
	for _, marker := range []string{
		"<command-name>",
		"<command-message>",
		"<local-command-stdout>",
		"<local-command-stderr>",
	} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// isHumanMessage reports whether the entry is a message the human actually
// wrote, as opposed to tool results, local command echoes, auto-compact
// continuations, or cancellation markers that also arrive as user entries.
func isHumanMessage(entry *Entry) bool {
	if entry.Kind != EntryKindUser {
		return false
	}
	if entry.HasToolResult() {
		return false
	}
	text := entry.TextContent()
	if isLocalCommandMessage(text) {
		return false
	}
	if isAutoCompactMessage(text) {
		return false
	}
	if isCancellationMessage(text) {
		return false
	}
	return true
}

// BuildInteractions groups log entries into interactions. Every human
// message starts exactly one interaction; subsequent agent-side entries are
// classified into actions in arrival order until the next human message.
// A cancellation marker sets the interaction's cancel reason and closes it:
// later records before the next human message are dropped (first
// cancellation wins). Interactions with no recorded actions are still
// emitted. IDs are the 1-based ordinal within the session, so repeated
// normalization of the same file yields identical IDs.
func BuildInteractions(entries []Entry) []model.Interaction {
	var interactions []model.Interaction
	var current *model.Interaction
	counter := 0

	flush := func() {
		if current == nil {
			return
		}
		current.FinalResponse = finalResponse(current.Actions)
		interactions = append(interactions, *current)
		current = nil
	}

	for i := range entries {
		entry := &entries[i]

		switch entry.Kind {
		case EntryKindUser:
			if isHumanMessage(entry) {
				flush()
				counter++
				current = &model.Interaction{
					ID:         types.InteractionID(fmt.Sprintf("interaction-%d", counter)),
					Timestamp:  entry.Timestamp,
					UserPrompt: entry.TextContent(),
				}
				continue
			}

			if current == nil {
				continue
			}

			text := entry.TextContent()
			switch {
			case isCancellationMessage(text):
				// First cancellation wins
				if current.CancelReason == "" {
					current.CancelReason = strings.TrimSpace(text)
				}

			case current.CancelReason != "":
				// Interaction is closed, drop trailing records

			case isAutoCompactMessage(text):
				current.Actions = append(current.Actions, model.Action{
					Type:      model.ActionTypeAutoCompact,
					Timestamp: timePtr(entry.Timestamp),
					Summary:   text,
				})

			default:
				attachToolResults(current, entry)
			}

		case EntryKindAssistant:
			if current == nil || current.CancelReason != "" {
				continue
			}
			if current.Model == "" && entry.Model != "" {
				current.Model = entry.Model
			}
			current.Actions = append(current.Actions, extractActions(entry)...)

		default:
			// system, summary, snapshot, queue operation and unknown
			// kinds carry no interaction content
		}
	}

	flush()
	return interactions
}

// extractActions converts an assistant entry's content blocks into actions,
// preserving block order.
func extractActions(entry *Entry) []model.Action {
	var actions []model.Action
	ts := timePtr(entry.Timestamp)

	for _, block := range entry.Content {
		switch block.Type {
		case BlockTypeThinking:
			actions = append(actions, model.Action{
				Type:      model.ActionTypeThinking,
				Timestamp: ts,
				Thinking:  block.Thinking,
			})
		case BlockTypeToolUse:
			actions = append(actions, model.Action{
				Type:      model.ActionTypeToolUse,
				Timestamp: ts,
				ToolName:  block.ToolName,
				ToolID:    block.ToolID,
				ToolInput: block.ToolInput,
			})
		case BlockTypeText:
			if block.Text == "" {
				continue
			}
			actions = append(actions, model.Action{
				Type:      model.ActionTypeText,
				Timestamp: ts,
				Text:      block.Text,
			})
		}
	}

	return actions
}

// attachToolResults merges tool_result blocks into the pending tool_use
// actions they answer, matched by tool call ID. A call and its result form
// one action; unmatched results are dropped.
func attachToolResults(interaction *model.Interaction, entry *Entry) {
	for _, block := range entry.Content {
		if block.Type != BlockTypeToolResult || block.ToolUseID == "" {
			continue
		}
		for i := range interaction.Actions {
			action := &interaction.Actions[i]
			if action.Type == model.ActionTypeToolUse && action.ToolID == block.ToolUseID {
				result := block.ResultText
				action.ToolResult = &result
				action.IsError = block.IsError
				break
			}
		}
	}
}

// finalResponse is the text of the last text action, nil when none exists.
func finalResponse(actions []model.Action) *string {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Type == model.ActionTypeText {
			text := actions[i].Text
			return &text
		}
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
