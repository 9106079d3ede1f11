package job

import "time"

// CreatedEvent is published after an employer submission is persisted.
type CreatedEvent struct {
	Job Job
}

func NewCreatedEvent(j Job) *CreatedEvent {
	return &CreatedEvent{Job: j}
}

// StatusChangedEvent is published after a moderation status change is
// persisted. From and To differ; idempotent no-op transitions publish
// nothing.
type StatusChangedEvent struct {
	Job   Job
	From  Status
	To    Status
	Notes string
	At    time.Time
}

func NewStatusChangedEvent(j Job, from, to Status, notes string) *StatusChangedEvent {
	return &StatusChangedEvent{
		Job:   j,
		From:  from,
		To:    to,
		Notes: notes,
		At:    time.Now(),
	}
}

// ReviewCompletedEvent is published after a combined job-plus-promotion
// review reaches a decision. Declined reviews notify the employer; granted
// ones do not.
type ReviewCompletedEvent struct {
	Job      Job
	Kind     PromotionKind
	Approved bool
	Notes    string
}

func NewReviewCompletedEvent(j Job, kind PromotionKind, approved bool, notes string) *ReviewCompletedEvent {
	return &ReviewCompletedEvent{
		Job:      j,
		Kind:     kind,
		Approved: approved,
		Notes:    notes,
	}
}

// DeletedEvent is published after an irreversible admin delete.
type DeletedEvent struct {
	Job Job
}

func NewDeletedEvent(j Job) *DeletedEvent {
	return &DeletedEvent{Job: j}
}
