package apperror

import "errors"

var (
	ErrRollInProgress   = errors.New("roll is already in progress")
	ErrNotRolling       = errors.New("dice are not rolling")
	ErrInvalidDiceCount = errors.New("invalid dice count")
	ErrInvalidRoll      = errors.New("invalid roll")

	ErrMalformedNarration   = errors.New("malformed narration")
	ErrNarrationUnavailable = errors.New("narration service is unavailable")
	ErrNarrationNotFound    = errors.New("narration not found")

	ErrSessionNotFound = errors.New("session not found")
)
