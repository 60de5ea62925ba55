package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// SessionSource provides read-only access to normalized sessions. Sessions
// are derived views over immutable log files; implementations must reflect
// the current state of the files on every call.
type SessionSource interface {
	// List returns all sessions currently present in the source
	List(ctx context.Context) ([]*model.Session, error)

	// Get returns one session by ID. Returns types.ErrSessionNotFound
	// when no session with the ID exists.
	Get(ctx context.Context, id types.SessionID) (*model.Session, error)
}
