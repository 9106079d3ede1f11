package promotionrequest

import "errors"

var (
	ErrNotFound = errors.New("promotion request not found")
	// ErrAlreadyProcessed marks an operation on a request in a terminal
	// state. Callers treat it as an idempotent no-op rather than a hard
	// failure so retried batches do not error-storm.
	ErrAlreadyProcessed = errors.New("promotion request already processed")
	ErrInvalidAmount    = errors.New("invalid payment amount")
)
