package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// InteractionRef points at one interaction across session files. References
// hold ids by value; the referenced interaction may no longer resolve when
// the underlying session file is gone, which is a soft failure at read time.
type InteractionRef struct {
	SessionID     types.SessionID     `json:"session_id"`
	InteractionID types.InteractionID `json:"interaction_id"`
}

// Task is a user-authored annotation bundling interactions across sessions.
// Tasks are immutable once created; the only lifecycle operation after
// creation is whole-record deletion.
type Task struct {
	ID           types.TaskID       `json:"id"`
	Description  string             `json:"description"`
	Category     types.TaskCategory `json:"category"`
	Outcome      types.TaskOutcome  `json:"outcome"`
	Interactions []InteractionRef   `json:"interactions"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Validate checks the closed enumerations and required fields
func (t *Task) Validate() error {
	if t.Description == "" {
		return goerr.Wrap(types.ErrInvalidTask, "task description is required")
	}
	if len(t.Interactions) == 0 {
		return goerr.Wrap(types.ErrInvalidTask, "task requires at least one interaction reference")
	}
	if !t.Category.IsValid() {
		return goerr.Wrap(types.ErrInvalidCategory, "unknown task category", goerr.V("category", t.Category))
	}
	if !t.Outcome.IsValid() {
		return goerr.Wrap(types.ErrInvalidOutcome, "unknown task outcome", goerr.V("outcome", t.Outcome))
	}
	for i, ref := range t.Interactions {
		if ref.SessionID == "" || ref.InteractionID == "" {
			return goerr.Wrap(types.ErrInvalidTask, "interaction reference requires session_id and interaction_id",
				goerr.V("index", i))
		}
	}
	return nil
}

// TaskInteraction is one hydrated entry of a TaskWithDetails: the resolved
// interaction plus enough session context to render provenance.
type TaskInteraction struct {
	SessionID        types.SessionID `json:"session_id"`
	SessionNumericID *int64          `json:"session_numeric_id"`
	SessionSummary   string          `json:"session_summary,omitempty"`
	Interaction      Interaction     `json:"interaction"`
}

// TaskWithDetails is the read-time projection of a Task with every
// resolvable reference hydrated. References that no longer resolve are
// omitted from Interactions and counted in MissingRefs, so an incomplete
// result is observable rather than silent. Never persisted.
type TaskWithDetails struct {
	ID           types.TaskID       `json:"id"`
	Description  string             `json:"description"`
	Category     types.TaskCategory `json:"category"`
	Outcome      types.TaskOutcome  `json:"outcome"`
	Interactions []TaskInteraction  `json:"interactions"`
	CreatedAt    time.Time          `json:"created_at"`
	MissingRefs  int                `json:"missing_refs"`
}
