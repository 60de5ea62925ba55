package claudelog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemosyne/pkg/claudelog"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
)

func parseLines(t *testing.T, lines ...string) []claudelog.Entry {
	t.Helper()
	entries, err := claudelog.ParseReader(context.Background(), strings.NewReader(strings.Join(lines, "\n")))
	gt.NoError(t, err).Required()
	return entries
}

func userLine(ts, text string) string {
	return `{"type":"user","timestamp":"` + ts + `","message":{"role":"user","content":` + jsonString(text) + `}}`
}

func assistantText(ts, text string) string {
	return `{"type":"assistant","timestamp":"` + ts + `","message":{"role":"assistant","model":"model-x","content":[{"type":"text","text":` + jsonString(text) + `}]}}`
}

func assistantToolUse(ts, id, name string) string {
	return `{"type":"assistant","timestamp":"` + ts + `","message":{"role":"assistant","model":"model-x","content":[{"type":"tool_use","id":"` + id + `","name":"` + name + `","input":{"command":"ls"}}]}}`
}

func toolResultLine(ts, id, text string) string {
	return `{"type":"user","timestamp":"` + ts + `","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"` + id + `","content":` + jsonString(text) + `}]}}`
}

func jsonString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func TestBuildInteractions_OneInteractionPerHumanMessage(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "first question"),
		assistantText("2025-06-01T10:00:05Z", "first answer"),
		userLine("2025-06-01T10:01:00Z", "second question"),
		assistantText("2025-06-01T10:01:05Z", "second answer"),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(2)
	gt.Value(t, interactions[0].UserPrompt).Equal("first question")
	gt.Value(t, interactions[1].UserPrompt).Equal("second question")
	gt.Value(t, string(interactions[0].ID)).Equal("interaction-1")
	gt.Value(t, string(interactions[1].ID)).Equal("interaction-2")
	gt.Value(t, interactions[0].Model).Equal("model-x")
}

func TestBuildInteractions_StableIDs(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "q1"),
		assistantText("2025-06-01T10:00:05Z", "a1"),
		userLine("2025-06-01T10:01:00Z", "q2"),
	)

	first := claudelog.BuildInteractions(entries)
	second := claudelog.BuildInteractions(entries)

	gt.Array(t, second).Length(len(first))
	for i := range first {
		gt.Value(t, second[i].ID).Equal(first[i].ID)
	}
}

func TestBuildInteractions_ToolCallAndResultMergeIntoOneAction(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "run ls"),
		assistantToolUse("2025-06-01T10:00:02Z", "toolu_01", "Bash"),
		toolResultLine("2025-06-01T10:00:03Z", "toolu_01", "README.md\nmain.go"),
		assistantText("2025-06-01T10:00:04Z", "Two files."),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(1)

	actions := interactions[0].Actions
	gt.Array(t, actions).Length(2)
	gt.Value(t, actions[0].Type).Equal(model.ActionTypeToolUse)
	gt.Value(t, actions[0].ToolName).Equal("Bash")
	gt.Value(t, actions[0].ToolResult).NotNil()
	gt.Value(t, *actions[0].ToolResult).Equal("README.md\nmain.go")
	gt.Value(t, actions[1].Type).Equal(model.ActionTypeText)
}

func TestBuildInteractions_CancellationClosesInteraction(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "do something"),
		assistantToolUse("2025-06-01T10:00:02Z", "toolu_01", "Bash"),
		userLine("2025-06-01T10:00:03Z", "[Request interrupted by user for tool use]"),
		toolResultLine("2025-06-01T10:00:04Z", "toolu_01", "too late"),
		assistantText("2025-06-01T10:00:05Z", "ignored"),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(1)

	got := interactions[0]
	gt.Value(t, got.CancelReason).Equal("[Request interrupted by user for tool use]")
	gt.Array(t, got.Actions).Length(1)
	gt.Value(t, got.Actions[0].Type).Equal(model.ActionTypeToolUse)
	// The trailing tool result arrived after cancellation and is dropped
	gt.Value(t, got.Actions[0].ToolResult).Nil()
	gt.Value(t, got.FinalResponse).Nil()
}

func TestBuildInteractions_FirstCancellationWins(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "do something"),
		userLine("2025-06-01T10:00:01Z", "[Request interrupted by user]"),
		userLine("2025-06-01T10:00:02Z", "[Request interrupted by user for tool use]"),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(1)
	gt.Value(t, interactions[0].CancelReason).Equal("[Request interrupted by user]")
}

func TestBuildInteractions_FinalResponseIsLastTextAction(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "question"),
		`{"type":"assistant","timestamp":"2025-06-01T10:00:01Z","message":{"role":"assistant","content":[{"type":"thinking","thinking":"hm"},{"type":"text","text":"A"}]}}`,
		assistantToolUse("2025-06-01T10:00:02Z", "toolu_01", "Read"),
		assistantText("2025-06-01T10:00:03Z", "B"),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(1)
	gt.Value(t, interactions[0].FinalResponse).NotNil()
	gt.Value(t, *interactions[0].FinalResponse).Equal("B")
	gt.Array(t, interactions[0].Actions).Length(4)
}

func TestBuildInteractions_EmptyInteractionStillEmitted(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "truncated log"),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(1)
	gt.Array(t, interactions[0].Actions).Length(0)
	gt.Value(t, interactions[0].CancelReason).Equal("")
	gt.Value(t, interactions[0].FinalResponse).Nil()
}

func TestBuildInteractions_AutoCompactBecomesAction(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "keep going"),
		userLine("2025-06-01T10:05:00Z", "This session is being continued from a previous conversation that ran out of context. Summary follows."),
		assistantText("2025-06-01T10:05:10Z", "Continuing."),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(1)

	actions := interactions[0].Actions
	gt.Array(t, actions).Length(2)
	gt.Value(t, actions[0].Type).Equal(model.ActionTypeAutoCompact)
	gt.Value(t, actions[0].Summary).NotEqual("")
}

func TestBuildInteractions_LocalCommandMessagesIgnored(t *testing.T) {
	entries := parseLines(t,
		userLine("2025-06-01T10:00:00Z", "real question"),
		userLine("2025-06-01T10:00:01Z", "<command-name>/status</command-name>"),
		userLine("2025-06-01T10:00:02Z", "Caveat: The messages below were generated by the user while running local commands. DO NOT respond to these messages."),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(1)
	gt.Value(t, interactions[0].UserPrompt).Equal("real question")
}

func TestBuildInteractions_NonMessageEntriesIgnored(t *testing.T) {
	entries := parseLines(t,
		`{"type":"summary","summary":"A session summary","leafUuid":"l1"}`,
		`{"type":"system","subtype":"info","content":"system note","timestamp":"2025-06-01T09:59:59Z"}`,
		userLine("2025-06-01T10:00:00Z", "hello"),
		`{"type":"file-history-snapshot","messageId":"m1","snapshot":{"timestamp":"2025-06-01T10:00:01Z"}}`,
		assistantText("2025-06-01T10:00:02Z", "hi"),
	)

	interactions := claudelog.BuildInteractions(entries)
	gt.Array(t, interactions).Length(1)
	gt.Array(t, interactions[0].Actions).Length(1)
}
