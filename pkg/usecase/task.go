package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
	"github.com/secmon-lab/mnemosyne/pkg/utils/logging"
)

type TaskUseCase struct {
	source interfaces.SessionSource
	repo   interfaces.Repository
}

func NewTaskUseCase(source interfaces.SessionSource, repo interfaces.Repository) *TaskUseCase {
	return &TaskUseCase{
		source: source,
		repo:   repo,
	}
}

// Create validates and persists a new task. Category and outcome are closed
// enumerations; anything else is rejected and nothing is persisted. The
// reference list order is preserved as given.
func (uc *TaskUseCase) Create(ctx context.Context, description, category, outcome string, refs []model.InteractionRef) (*model.Task, error) {
	parsedCategory, err := types.ParseTaskCategory(category)
	if err != nil {
		return nil, err
	}
	parsedOutcome, err := types.ParseTaskOutcome(outcome)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:           types.TaskID(uuid.NewString()),
		Description:  description,
		Category:     parsedCategory,
		Outcome:      parsedOutcome,
		Interactions: refs,
		CreatedAt:    time.Now().UTC(),
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Task().Create(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task")
	}
	return created, nil
}

// List returns all tasks, newest first
func (uc *TaskUseCase) List(ctx context.Context) ([]*model.Task, error) {
	tasks, err := uc.repo.Task().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks")
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// Get returns one task without hydration
func (uc *TaskUseCase) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("task_id", id))
	}
	return task, nil
}

// Delete removes a task by ID
func (uc *TaskUseCase) Delete(ctx context.Context, id types.TaskID) error {
	if err := uc.repo.Task().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete task", goerr.V("task_id", id))
	}
	return nil
}

// GetDetails resolves a task into its read-time projection. Each reference
// is resolved in original order against the current session files.
// References whose session or interaction cannot be found are omitted from
// the hydrated list and counted in MissingRefs; resolution never fails on a
// stale reference. The operation is read-only and idempotent.
func (uc *TaskUseCase) GetDetails(ctx context.Context, id types.TaskID) (*model.TaskWithDetails, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("task_id", id))
	}

	details := &model.TaskWithDetails{
		ID:           task.ID,
		Description:  task.Description,
		Category:     task.Category,
		Outcome:      task.Outcome,
		Interactions: make([]model.TaskInteraction, 0, len(task.Interactions)),
		CreatedAt:    task.CreatedAt,
	}

	for _, ref := range task.Interactions {
		session, err := uc.source.Get(ctx, ref.SessionID)
		if err != nil {
			if errors.Is(err, types.ErrSessionNotFound) {
				logging.From(ctx).Warn("task references missing session",
					"task_id", task.ID,
					"session_id", ref.SessionID,
				)
				details.MissingRefs++
				continue
			}
			return nil, goerr.Wrap(err, "failed to resolve session",
				goerr.V("task_id", task.ID),
				goerr.V("session_id", ref.SessionID),
			)
		}

		interaction := session.Interaction(ref.InteractionID)
		if interaction == nil {
			logging.From(ctx).Warn("task references missing interaction",
				"task_id", task.ID,
				"session_id", ref.SessionID,
				"interaction_id", ref.InteractionID,
			)
			details.MissingRefs++
			continue
		}

		details.Interactions = append(details.Interactions, model.TaskInteraction{
			SessionID:        session.ID,
			SessionNumericID: session.NumericID,
			SessionSummary:   session.Summary,
			Interaction:      *interaction,
		})
	}

	return details, nil
}
