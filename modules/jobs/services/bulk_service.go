package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
	"github.com/hulujobs/hulujobs-sdk/pkg/metrics"
)

// BulkAction is one admin action applied across a set of job ids.
type BulkAction interface {
	authzAction() string
}

// StatusChange moves every job to the given status.
type StatusChange struct {
	Status job.Status
	Notes  string
}

// SetFeatured toggles the featured flag directly. Disabling clears the
// window.
type SetFeatured struct {
	Enabled bool
}

// SetFreelance toggles the freelance flag directly.
type SetFreelance struct {
	Enabled bool
}

// DeleteJobs removes the rows. Irreversible.
type DeleteJobs struct{}

func (StatusChange) authzAction() string { return "update" }
func (SetFeatured) authzAction() string  { return "update" }
func (SetFreelance) authzAction() string { return "update" }
func (DeleteJobs) authzAction() string   { return "delete" }

type OutcomeKind string

const (
	OutcomeApplied OutcomeKind = "applied"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

// Outcome is the per-item result of a bulk action.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// BulkReport aggregates per-item outcomes. NotificationsQueued counts the
// employer rejection notices fanned out by this batch.
type BulkReport struct {
	Items               map[uuid.UUID]Outcome
	NotificationsQueued int
}

// BulkService applies one action to many jobs as a best-effort batch. Items
// are isolated: one failure never aborts the rest, and retries are the
// caller's job by re-invoking with the failed subset. Operations on the same
// job id are serialized across concurrent batches to avoid lost updates.
type BulkService struct {
	repo      job.Repository
	publisher eventbus.EventBus

	locks [64]sync.Mutex
}

func NewBulkService(repo job.Repository, publisher eventbus.EventBus) *BulkService {
	return &BulkService{
		repo:      repo,
		publisher: publisher,
	}
}

// lockJob serializes work on one job across concurrent batches. Locks are
// striped by id so the table stays fixed-size; distinct ids sharing a
// stripe serialize too, which costs throughput but never correctness.
func (s *BulkService) lockJob(id uuid.UUID) *sync.Mutex {
	l := &s.locks[int(id[0])%len(s.locks)]
	l.Lock()
	return l
}

// Apply runs the action over every id and reports per-item outcomes.
func (s *BulkService) Apply(ctx context.Context, ids []uuid.UUID, action BulkAction) (BulkReport, error) {
	if err := authorizeJobs(ctx, JobsAuthzObject, action.authzAction()); err != nil {
		return BulkReport{}, err
	}

	report := BulkReport{Items: make(map[uuid.UUID]Outcome, len(ids))}
	for _, id := range ids {
		outcome := s.applyOne(ctx, id, action, &report)
		report.Items[id] = outcome
		metrics.BulkOutcomes.WithLabelValues(string(outcome.Kind)).Inc()
	}
	return report, nil
}

func (s *BulkService) applyOne(ctx context.Context, id uuid.UUID, action BulkAction, report *BulkReport) Outcome {
	l := s.lockJob(id)
	defer l.Unlock()

	var events []interface{}
	rejections := 0
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		j, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		switch a := action.(type) {
		case StatusChange:
			from := j.Status()
			j, err = j.Transition(a.Status)
			if err != nil {
				return err
			}
			if from == j.Status() {
				return errSkipped
			}
			updated := j.WithAdminNotes(a.Notes)
			if _, err := s.repo.Update(txCtx, updated); err != nil {
				return err
			}
			events = append(events, job.NewStatusChangedEvent(updated, from, updated.Status(), a.Notes))
			if a.Status == job.StatusRejected {
				rejections++
			}
			return nil

		case SetFeatured:
			if j.IsFeatured() == a.Enabled {
				return errSkipped
			}
			_, err := s.repo.Update(txCtx, j.SetPromotionFlag(job.KindFeatured, a.Enabled))
			return err

		case SetFreelance:
			if j.IsFreelance() == a.Enabled {
				return errSkipped
			}
			_, err := s.repo.Update(txCtx, j.SetPromotionFlag(job.KindFreelance, a.Enabled))
			return err

		case DeleteJobs:
			if err := s.repo.Delete(txCtx, id); err != nil {
				return err
			}
			events = append(events, job.NewDeletedEvent(j))
			return nil

		default:
			return errSkipped
		}
	})

	switch {
	case err == nil:
		for _, e := range events {
			s.publisher.Publish(e)
		}
		report.NotificationsQueued += rejections
		return Outcome{Kind: OutcomeApplied}
	case errors.Is(err, errSkipped):
		return Outcome{Kind: OutcomeSkipped, Reason: "no change"}
	default:
		return Outcome{Kind: OutcomeFailed, Reason: err.Error()}
	}
}

// errSkipped is an internal sentinel that rolls back the per-item tx while
// classifying the item as skipped rather than failed.
var errSkipped = &skippedError{}

type skippedError struct{}

func (*skippedError) Error() string { return "skipped" }
