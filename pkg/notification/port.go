package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is an employer-facing notification about a moderation or promotion
// outcome. Delivery is best-effort: senders log failures and never propagate
// them into the state change that triggered the message.
type Message struct {
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	JobID     uuid.UUID `json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Port dispatches a message to a user. Implementations must be safe for
// concurrent use.
type Port interface {
	Notify(ctx context.Context, msg Message) error
}
