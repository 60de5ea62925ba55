package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[types.TaskID]*model.Task
	order []types.TaskID
}

var _ interfaces.TaskRepository = &taskRepository{}

func newTaskRepository() *taskRepository {
	return &taskRepository{
		tasks: make(map[types.TaskID]*model.Task),
	}
}

func (r *taskRepository) Create(_ context.Context, task *model.Task) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return nil, goerr.New("task already exists", goerr.V("task_id", task.ID))
	}

	stored := copyTask(task)
	r.tasks[task.ID] = stored
	r.order = append(r.order, task.ID)

	return copyTask(stored), nil
}

func (r *taskRepository) List(_ context.Context) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Task, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, copyTask(r.tasks[id]))
	}
	return result, nil
}

func (r *taskRepository) Get(_ context.Context, id types.TaskID) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, goerr.Wrap(types.ErrTaskNotFound, "no such task", goerr.V("task_id", id))
	}
	return copyTask(task), nil
}

func (r *taskRepository) Delete(_ context.Context, id types.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return goerr.Wrap(types.ErrTaskNotFound, "no such task", goerr.V("task_id", id))
	}
	delete(r.tasks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// copyTask guards stored tasks against external mutation
func copyTask(task *model.Task) *model.Task {
	copied := *task
	copied.Interactions = make([]model.InteractionRef, len(task.Interactions))
	copy(copied.Interactions, task.Interactions)
	return &copied
}
