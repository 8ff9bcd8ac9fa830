package utils

import "errors"

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrDescriptionsPending = errors.New("both ideal-date descriptions are required")
	ErrVotesPending        = errors.New("both participants must vote first")
	ErrAIDisabled          = errors.New("AI generation is disabled")
	ErrNoSummary           = errors.New("no plan to refine yet")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDatabaseError       = errors.New("database error")
)
