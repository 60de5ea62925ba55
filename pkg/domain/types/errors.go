package types

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across repositories and use cases
var (
	ErrSessionNotFound = goerr.New("session not found")
	ErrTaskNotFound    = goerr.New("task not found")
	ErrInvalidCategory = goerr.New("invalid task category")
	ErrInvalidOutcome  = goerr.New("invalid task outcome")
	ErrInvalidTask     = goerr.New("invalid task")
)
