package promotionrequest

import "github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ProcessedEvent is published after a request reaches a terminal state and
// both the job and the request are persisted.
type ProcessedEvent struct {
	Request  PromotionRequest
	Job      job.Job
	Decision Decision
	Reason   string
}

func NewProcessedEvent(r PromotionRequest, j job.Job, decision Decision, reason string) *ProcessedEvent {
	return &ProcessedEvent{
		Request:  r,
		Job:      j,
		Decision: decision,
		Reason:   reason,
	}
}
