package model

import (
	"encoding/json"
	"time"

	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// ActionType represents the kind of action an agent took within an interaction
type ActionType string

const (
	ActionTypeThinking    ActionType = "thinking"
	ActionTypeToolUse     ActionType = "tool_use"
	ActionTypeText        ActionType = "text"
	ActionTypeAutoCompact ActionType = "auto_compact"
)

// Action is a single agent-side step within an interaction. Exactly one
// payload group is populated depending on Type: Thinking, the Tool* fields,
// Text, or Summary.
type Action struct {
	Type      ActionType `json:"type"`
	Timestamp *time.Time `json:"timestamp,omitempty"`

	// thinking
	Thinking string `json:"thinking,omitempty"`

	// tool_use; ToolResult and IsError are filled when the matching
	// tool_result record arrives later in the log
	ToolName   string          `json:"tool_name,omitempty"`
	ToolID     string          `json:"tool_id,omitempty"`
	ToolInput  json.RawMessage `json:"tool_input,omitempty"`
	ToolResult *string         `json:"tool_result,omitempty"`
	IsError    bool            `json:"is_error,omitempty"`

	// text
	Text string `json:"text,omitempty"`

	// auto_compact
	Summary string `json:"summary,omitempty"`
}

// Interaction is the atomic unit of human-agent exchange: one human prompt
// followed by the agent's actions and final response.
type Interaction struct {
	ID            types.InteractionID `json:"id"`
	Timestamp     time.Time           `json:"timestamp"`
	UserPrompt    string              `json:"user_prompt"`
	Actions       []Action            `json:"actions"`
	FinalResponse *string             `json:"final_response,omitempty"`
	Model         string              `json:"model,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
}
