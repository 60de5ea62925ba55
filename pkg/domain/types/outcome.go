package types

import "github.com/m-mizutani/goerr/v2"

// TaskOutcome represents how a task's agent sessions turned out
type TaskOutcome string

const (
	TaskOutcomeSuccess              TaskOutcome = "success"
	TaskOutcomeSuccessWithHumanNL   TaskOutcome = "success-with-human-NL"
	TaskOutcomeSuccessWithHumanCode TaskOutcome = "success-with-human-code"
	TaskOutcomeSuccessWithHumanBoth TaskOutcome = "success-with-human-both"
	TaskOutcomePartial              TaskOutcome = "partial"
	TaskOutcomeProblemIdentified    TaskOutcome = "problem-identified"
	TaskOutcomeFailure              TaskOutcome = "failure"
)

// AllTaskOutcomes returns all valid task outcomes
func AllTaskOutcomes() []TaskOutcome {
	return []TaskOutcome{
		TaskOutcomeSuccess,
		TaskOutcomeSuccessWithHumanNL,
		TaskOutcomeSuccessWithHumanCode,
		TaskOutcomeSuccessWithHumanBoth,
		TaskOutcomePartial,
		TaskOutcomeProblemIdentified,
		TaskOutcomeFailure,
	}
}

// IsValid checks if the task outcome is valid
func (o TaskOutcome) IsValid() bool {
	switch o {
	case TaskOutcomeSuccess,
		TaskOutcomeSuccessWithHumanNL,
		TaskOutcomeSuccessWithHumanCode,
		TaskOutcomeSuccessWithHumanBoth,
		TaskOutcomePartial,
		TaskOutcomeProblemIdentified,
		TaskOutcomeFailure:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task outcome
func (o TaskOutcome) String() string {
	return string(o)
}

// ParseTaskOutcome parses a string into a TaskOutcome
func ParseTaskOutcome(s string) (TaskOutcome, error) {
	outcome := TaskOutcome(s)
	if !outcome.IsValid() {
		return "", goerr.Wrap(ErrInvalidOutcome, "unknown task outcome", goerr.V("outcome", s))
	}
	return outcome, nil
}
