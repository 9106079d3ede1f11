package authz

import (
	"strings"

	"github.com/google/uuid"
)

// Mode controls how authorization decisions are applied.
type Mode string

const (
	// ModeDisabled skips enforcement entirely.
	ModeDisabled Mode = "disabled"
	// ModeShadow evaluates policies and logs denials without blocking.
	ModeShadow Mode = "shadow"
	// ModeEnforce blocks denied requests.
	ModeEnforce Mode = "enforce"
)

// Request is a single authorization question: may subject perform action on
// object.
type Request struct {
	Subject string
	Object  string
	Action  string
}

func NewRequest(subject, object, action string) Request {
	return Request{
		Subject: subject,
		Object:  object,
		Action:  NormalizeAction(action),
	}
}

// SubjectForUser renders the canonical casbin subject for a user id.
func SubjectForUser(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func NormalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}

func ParseMode(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeDisabled:
		return ModeDisabled
	case ModeEnforce:
		return ModeEnforce
	default:
		return ModeShadow
	}
}
