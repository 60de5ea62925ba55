package model

import (
	"time"

	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// Session is a read-only view over one log file: identity metadata plus the
// normalized interactions. Sessions are never mutated by this system.
type Session struct {
	ID           types.SessionID
	FileName     string
	NumericID    *int64 // parsed from "{numeric_id}_{uuid}.jsonl", nil otherwise
	UUID         string // parsed from the file name, empty otherwise
	Summary      string
	StartTime    *time.Time
	Interactions []Interaction
}

// Interaction returns the interaction with the given ordinal ID, or nil.
func (s *Session) Interaction(id types.InteractionID) *Interaction {
	for i := range s.Interactions {
		if s.Interactions[i].ID == id {
			return &s.Interactions[i]
		}
	}
	return nil
}

// ToSummary returns the listing projection of the session.
func (s *Session) ToSummary() SessionSummary {
	return SessionSummary{
		SessionID:        s.ID,
		FileName:         s.FileName,
		NumericID:        s.NumericID,
		InteractionCount: len(s.Interactions),
		StartTime:        s.StartTime,
		Summary:          s.Summary,
	}
}

// SessionSummary is the listing projection of a session
type SessionSummary struct {
	SessionID        types.SessionID `json:"session_id"`
	FileName         string          `json:"file_name"`
	NumericID        *int64          `json:"numeric_id"`
	InteractionCount int             `json:"interaction_count"`
	StartTime        *time.Time      `json:"start_time"`
	Summary          string          `json:"summary,omitempty"`
}

// Stats holds explorer-wide aggregate counts
type Stats struct {
	TotalSessions     int `json:"total_sessions"`
	TotalInteractions int `json:"total_interactions"`
	TotalTasks        int `json:"total_tasks"`
}
