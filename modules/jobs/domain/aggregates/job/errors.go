package job

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("job not found")
	ErrUnknownStatus = errors.New("unknown job status")
	ErrUnknownKind   = errors.New("unknown promotion kind")
)

// InvalidTransitionError reports a status change that the transition table
// forbids. It names both states so the caller can re-route through an
// intermediate state.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// ErrInvalidTransition matches any InvalidTransitionError under errors.Is.
var ErrInvalidTransition = errors.New("invalid status transition")

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ExtendNotAllowedError reports an extension attempt on a job whose status
// does not permit promotion changes.
type ExtendNotAllowedError struct {
	Status Status
}

func (e *ExtendNotAllowedError) Error() string {
	return fmt.Sprintf("cannot extend promotion while job is %q", e.Status)
}

var ErrExtendNotAllowed = errors.New("promotion extension not allowed")

func (e *ExtendNotAllowedError) Is(target error) bool {
	return target == ErrExtendNotAllowed
}
