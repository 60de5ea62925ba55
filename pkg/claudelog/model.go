// Package claudelog parses Claude Code session logs (JSONL) and normalizes
// them into interactions: one human prompt followed by the agent's actions.
package claudelog

import (
	"encoding/json"
	"strings"
	"time"
)

// EntryKind represents the top-level "type" field values in session logs
type EntryKind string

const (
	EntryKindUser                EntryKind = "user"
	EntryKindAssistant           EntryKind = "assistant"
	EntryKindSystem              EntryKind = "system"
	EntryKindSummary             EntryKind = "summary"
	EntryKindFileHistorySnapshot EntryKind = "file-history-snapshot"
	EntryKindQueueOperation      EntryKind = "queue-operation"
)

// BlockType represents the "type" field in message content blocks
type BlockType string

const (
	BlockTypeText       BlockType = "text"
	BlockTypeThinking   BlockType = "thinking"
	BlockTypeToolUse    BlockType = "tool_use"
	BlockTypeToolResult BlockType = "tool_result"
)

// ContentBlock is one portion of a message payload. The populated fields
// depend on Type; unknown block types degrade to a text block carrying the
// raw JSON.
type ContentBlock struct {
	Type BlockType

	// text
	Text string

	// thinking
	Thinking  string
	Signature string

	// tool_use
	ToolID    string
	ToolName  string
	ToolInput json.RawMessage

	// tool_result
	ToolUseID  string
	ResultText string
	IsError    bool
}

// TokenUsage represents token usage statistics for assistant messages
type TokenUsage struct {
	InputTokens              int
	CacheCreationInputTokens int
	CacheReadInputTokens     int
	OutputTokens             int
	ServiceTier              string
}

// Entry is one decoded line of a session log, tagged by Kind. A zero
// Timestamp means the record carried none (or an unparseable one).
type Entry struct {
	Kind      EntryKind
	Timestamp time.Time

	UUID        string
	ParentUUID  string
	SessionID   string
	CWD         string
	Version     string
	GitBranch   string
	IsSidechain bool
	IsMeta      bool

	// user / assistant message payload
	Role      string
	Model     string
	MessageID string
	RequestID string
	Content   []ContentBlock
	Usage     *TokenUsage

	// summary
	SummaryText string
	LeafUUID    string

	// system
	Subtype       string
	SystemContent string
	Level         string

	// queue-operation
	Operation string
}

// HasToolResult reports whether any content block is a tool result.
// Entries carrying tool results are agent plumbing, not human messages.
func (e *Entry) HasToolResult() bool {
	for _, block := range e.Content {
		if block.Type == BlockTypeToolResult {
			return true
		}
	}
	return false
}

// TextContent joins the text blocks of the entry's message content.
func (e *Entry) TextContent() string {
	var parts []string
	for _, block := range e.Content {
		if block.Type == BlockTypeText && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
