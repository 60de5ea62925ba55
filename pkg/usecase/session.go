package usecase

import (
	"context"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemosyne/pkg/domain/model"
	"github.com/secmon-lab/mnemosyne/pkg/domain/types"
)

type SessionUseCase struct {
	source interfaces.SessionSource
	repo   interfaces.Repository
}

func NewSessionUseCase(source interfaces.SessionSource, repo interfaces.Repository) *SessionUseCase {
	return &SessionUseCase{
		source: source,
		repo:   repo,
	}
}

// List returns session summaries sorted by numeric ID, newest (highest)
// first; sessions without a numeric ID sort last by start time.
func (uc *SessionUseCase) List(ctx context.Context) ([]model.SessionSummary, error) {
	listed, err := uc.source.List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sessions")
	}

	summaries := make([]model.SessionSummary, 0, len(listed))
	for _, session := range listed {
		summaries = append(summaries, session.ToSummary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		ni, nj := numericOrZero(summaries[i].NumericID), numericOrZero(summaries[j].NumericID)
		if ni != nj {
			return ni > nj
		}
		ti, tj := summaries[i].StartTime, summaries[j].StartTime
		if ti != nil && tj != nil {
			return ti.After(*tj)
		}
		return ti != nil
	})

	return summaries, nil
}

// Get returns one fully normalized session
func (uc *SessionUseCase) Get(ctx context.Context, id types.SessionID) (*model.Session, error) {
	session, err := uc.source.Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("session_id", id))
	}
	return session, nil
}

// Stats returns explorer-wide aggregate counts
func (uc *SessionUseCase) Stats(ctx context.Context) (*model.Stats, error) {
	listed, err := uc.source.List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sessions")
	}

	stats := &model.Stats{TotalSessions: len(listed)}
	for _, session := range listed {
		stats.TotalInteractions += len(session.Interactions)
	}

	tasks, err := uc.repo.Task().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks")
	}
	stats.TotalTasks = len(tasks)

	return stats, nil
}

func numericOrZero(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
