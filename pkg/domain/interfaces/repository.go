package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

// Repository defines the interface for task persistence
type Repository interface {
	Task() TaskRepository

	Close() error
}

// TaskRepository defines the interface for Task data access. Creation is
// append-only and tasks are immutable; there is no update operation.
type TaskRepository interface {
	// Create persists a new task. ID and CreatedAt must already be set by
	// the caller (the use case generates them).
	Create(ctx context.Context, task *model.Task) (*model.Task, error)

	// List retrieves all tasks in store order
	List(ctx context.Context) ([]*model.Task, error)

	// Get retrieves a task by ID. Returns types.ErrTaskNotFound when absent.
	Get(ctx context.Context, id types.TaskID) (*model.Task, error)

	// Delete removes a task by ID, preserving the order of remaining
	// tasks. Returns types.ErrTaskNotFound when absent.
	Delete(ctx context.Context, id types.TaskID) error
}
