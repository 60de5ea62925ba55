package usecase

import (
	"github.com/secmon-lab/mnemosyne/pkg/domain/interfaces"
)

// UseCases bundles the explorer's operations over a session source and the
// task repository. The operations hold no state of their own and are safe
// to call concurrently.
type UseCases struct {
	Session *SessionUseCase
	Task    *TaskUseCase
}

// New creates the use case set
func New(source interfaces.SessionSource, repo interfaces.Repository) *UseCases {
	return &UseCases{
		Session: NewSessionUseCase(source, repo),
		Task:    NewTaskUseCase(source, repo),
	}
}
