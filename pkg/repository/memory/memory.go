// Package memory provides an in-memory task repository, used for tests and
// for running the explorer without a tasks file.
package memory

import (
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
)

// Repository is an in-memory implementation of interfaces.Repository
type Repository struct {
	task *taskRepository
}

var _ interfaces.Repository = &Repository{}

// New creates an empty in-memory repository
func New() *Repository {
	return &Repository{
		task: newTaskRepository(),
	}
}

// Task returns the task sub-repository
func (r *Repository) Task() interfaces.TaskRepository {
	return r.task
}

// Close is a no-op for the in-memory repository
func (r *Repository) Close() error {
	return nil
}
