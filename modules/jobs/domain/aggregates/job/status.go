package job

import "fmt"

// Status is the stored moderation status of a job posting. It is independent
// of promotion windows: whether a promotion is currently visible is computed
// at read time, see EffectiveAt.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusFeatured Status = "featured"
	StatusInactive Status = "inactive"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusFeatured, StatusInactive, StatusRejected:
		return true
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// allowedTransitions is the closed transition table. Rejected and inactive
// are not terminal: an admin may always move a job out of them along the
// listed edges.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusActive:   true,
		StatusRejected: true,
	},
	StatusActive: {
		StatusInactive: true,
		StatusFeatured: true,
		StatusRejected: true,
	},
	StatusFeatured: {
		StatusActive:   true,
		StatusInactive: true,
		StatusRejected: true,
	},
	StatusInactive: {
		StatusActive:   true,
		StatusRejected: true,
	},
	StatusRejected: {
		StatusPending: true,
	},
}

// CanTransition reports whether from -> to is a legal status change.
// A same-status transition is always legal and treated as a no-op.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return allowedTransitions[from][to]
}
