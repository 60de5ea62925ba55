package claudelog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
)

// Allow large payloads (tool results can embed whole files)
const maxLineSize = 8 * 1024 * 1024

type rawEntry struct {
	Type        string          `json:"type"`
	UUID        string          `json:"uuid"`
	ParentUUID  string          `json:"parentUuid"`
	SessionID   string          `json:"sessionId"`
	CWD         string          `json:"cwd"`
	Version     string          `json:"version"`
	GitBranch   string          `json:"gitBranch"`
	IsSidechain bool            `json:"isSidechain"`
	IsMeta      bool            `json:"isMeta"`
	Timestamp   string          `json:"timestamp"`
	Message     json.RawMessage `json:"message"`
	RequestID   string          `json:"requestId"`
	Summary     string          `json:"summary"`
	LeafUUID    string          `json:"leafUuid"`
	Subtype     string          `json:"subtype"`
	Content     string          `json:"content"`
	Level       string          `json:"level"`
	Operation   string          `json:"operation"`
}

type messagePayload struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
	Usage   *struct {
		InputTokens              int    `json:"input_tokens"`
		CacheCreationInputTokens int    `json:"cache_creation_input_tokens"`
		CacheReadInputTokens     int    `json:"cache_read_input_tokens"`
		OutputTokens             int    `json:"output_tokens"`
		ServiceTier              string `json:"service_tier"`
	} `json:"usage"`
}

type rawBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Thinking  string          `json:"thinking"`
	Signature string          `json:"signature"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
	IsError   bool            `json:"is_error"`
}

// ParseLine decodes one JSONL line into an Entry. An error means the line
// is not valid JSON; a valid line with an unknown "type" is returned as-is
// with its Kind set so callers can decide to ignore it.
func ParseLine(raw []byte) (Entry, error) {
	var rec rawEntry
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Entry{}, goerr.Wrap(err, "unmarshal log entry")
	}

	entry := Entry{
		Kind:        EntryKind(rec.Type),
		Timestamp:   parseTimestamp(rec.Timestamp),
		UUID:        rec.UUID,
		ParentUUID:  rec.ParentUUID,
		SessionID:   rec.SessionID,
		CWD:         rec.CWD,
		Version:     rec.Version,
		GitBranch:   rec.GitBranch,
		IsSidechain: rec.IsSidechain,
		IsMeta:      rec.IsMeta,
		RequestID:   rec.RequestID,
	}

	switch entry.Kind {
	case EntryKindUser, EntryKindAssistant:
		if len(rec.Message) > 0 {
			var msg messagePayload
			if err := json.Unmarshal(rec.Message, &msg); err != nil {
				return Entry{}, goerr.Wrap(err, "unmarshal message payload")
			}
			entry.Role = msg.Role
			entry.Model = msg.Model
			entry.MessageID = msg.ID
			entry.Content = decodeContent(msg.Content)
			if msg.Usage != nil {
				entry.Usage = &TokenUsage{
					InputTokens:              msg.Usage.InputTokens,
					CacheCreationInputTokens: msg.Usage.CacheCreationInputTokens,
					CacheReadInputTokens:     msg.Usage.CacheReadInputTokens,
					OutputTokens:             msg.Usage.OutputTokens,
					ServiceTier:              msg.Usage.ServiceTier,
				}
			}
		}

	case EntryKindSummary:
		entry.SummaryText = rec.Summary
		entry.LeafUUID = rec.LeafUUID

	case EntryKindSystem:
		entry.Subtype = rec.Subtype
		entry.SystemContent = rec.Content
		entry.Level = rec.Level

	case EntryKindQueueOperation:
		entry.Operation = rec.Operation
	}

	return entry, nil
}

// ParseReader scans newline-delimited JSON records and returns the decoded
// entries in input order. Malformed lines are skipped with a debug log;
// a single bad line never aborts the rest of the scan.
func ParseReader(ctx context.Context, r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 1024)
	scanner.Buffer(buf, maxLineSize)

	var entries []Entry
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		entry, err := ParseLine(line)
		if err != nil {
			logging.From(ctx).Debug("skipping malformed log line",
				"line", lineNum,
				"error", err.Error(),
			)
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return entries, goerr.Wrap(err, "scan session log")
	}

	return entries, nil
}

// ParseFile loads a whole session file into memory, then parses it. The
// all-or-nothing read avoids interleaving with concurrent file mutation.
func ParseFile(ctx context.Context, path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "read session file", goerr.V("path", path))
	}
	return ParseReader(ctx, bytes.NewReader(data))
}

func decodeContent(raw json.RawMessage) []ContentBlock {
	if len(raw) == 0 {
		return nil
	}

	// String content is a single text block
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []ContentBlock{{Type: BlockTypeText, Text: asString}}
	}

	var blocks []rawBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return []ContentBlock{{Type: BlockTypeText, Text: string(raw)}}
	}

	// Second decode keeps each block's own raw bytes for the fallback
	var rawBlocks []json.RawMessage
	_ = json.Unmarshal(raw, &rawBlocks)

	result := make([]ContentBlock, 0, len(blocks))
	for i, block := range blocks {
		switch BlockType(block.Type) {
		case BlockTypeText:
			result = append(result, ContentBlock{
				Type: BlockTypeText,
				Text: block.Text,
			})
		case BlockTypeThinking:
			result = append(result, ContentBlock{
				Type:      BlockTypeThinking,
				Thinking:  block.Thinking,
				Signature: block.Signature,
			})
		case BlockTypeToolUse:
			result = append(result, ContentBlock{
				Type:      BlockTypeToolUse,
				ToolID:    block.ID,
				ToolName:  block.Name,
				ToolInput: block.Input,
			})
		case BlockTypeToolResult:
			result = append(result, ContentBlock{
				Type:       BlockTypeToolResult,
				ToolUseID:  block.ToolUseID,
				ResultText: decodeResultContent(block.Content),
				IsError:    block.IsError,
			})
		default:
			// Unknown block type, keep that block's raw JSON as text
			text := ""
			if i < len(rawBlocks) {
				text = string(rawBlocks[i])
			}
			result = append(result, ContentBlock{
				Type: BlockTypeText,
				Text: text,
			})
		}
	}
	return result
}

// decodeResultContent flattens a tool_result payload, which is either a
// plain string or a nested array of content blocks.
func decodeResultContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var nested []rawBlock
	if err := json.Unmarshal(raw, &nested); err != nil {
		return string(raw)
	}

	var parts []string
	for _, nb := range nested {
		if nb.Text != "" {
			parts = append(parts, nb.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// parseTimestamp decodes an RFC3339 timestamp, returning the zero time for
// missing or unparseable values. A bad timestamp degrades only the
// chronology of its own record.
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}
