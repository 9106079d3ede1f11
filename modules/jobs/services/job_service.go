package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
)

// JobService owns single-job moderation: creation intake, status changes and
// the irreversible admin delete.
type JobService struct {
	repo      job.Repository
	publisher eventbus.EventBus
}

func NewJobService(repo job.Repository, publisher eventbus.EventBus) *JobService {
	return &JobService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *JobService) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *JobService) GetPaginated(ctx context.Context, params *job.FindParams) ([]job.Job, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

// Create persists an employer submission in pending.
func (s *JobService) Create(ctx context.Context, employerID uuid.UUID, title string, deadline time.Time) (job.Job, error) {
	created, err := s.repo.Create(ctx, job.New(employerID, title, deadline))
	if err != nil {
		return job.Job{}, err
	}
	s.publisher.Publish(job.NewCreatedEvent(created))
	return created, nil
}

// ChangeStatus applies a moderation transition and records the decision
// notes. A same-status request persists nothing and publishes nothing.
func (s *JobService) ChangeStatus(ctx context.Context, id uuid.UUID, to job.Status, notes string) (job.Job, error) {
	if err := authorizeJobs(ctx, JobsAuthzObject, "update"); err != nil {
		return job.Job{}, err
	}

	var from job.Status
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (job.Job, error) {
		j, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return job.Job{}, err
		}
		from = j.Status()

		j, err = j.Transition(to)
		if err != nil {
			return job.Job{}, err
		}
		if from == j.Status() {
			return j, nil
		}
		return s.repo.Update(txCtx, j.WithAdminNotes(notes))
	})
	if err != nil {
		return job.Job{}, err
	}

	if from != updated.Status() {
		s.publisher.Publish(job.NewStatusChangedEvent(updated, from, updated.Status(), notes))
	}
	return updated, nil
}

// Delete removes the job row. There is no soft-delete path.
func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := authorizeJobs(ctx, JobsAuthzObject, "delete"); err != nil {
		return err
	}

	deleted, err := composables.InTxResult(ctx, func(txCtx context.Context) (job.Job, error) {
		j, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return job.Job{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return job.Job{}, err
		}
		return j, nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(job.NewDeletedEvent(deleted))
	return nil
}
