package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
	"github.com/hulujobs/hulujobs-sdk/pkg/metrics"
)

// PromotionService manages promotion windows after they were granted:
// paid extensions and the reconciliation pass that persists lazy expiry.
type PromotionService struct {
	repo          job.Repository
	publisher     eventbus.EventBus
	extensionDays int
}

func NewPromotionService(repo job.Repository, publisher eventbus.EventBus, extensionDays int) *PromotionService {
	return &PromotionService{
		repo:          repo,
		publisher:     publisher,
		extensionDays: extensionDays,
	}
}

// Extend pushes the job's promotion window forward by the configured
// increment, counted from whichever is later of now or the current window
// end.
func (s *PromotionService) Extend(ctx context.Context, id uuid.UUID, kind job.PromotionKind) (job.Job, error) {
	if err := authorizeJobs(ctx, JobsAuthzObject, "update"); err != nil {
		return job.Job{}, err
	}

	return composables.InTxResult(ctx, func(txCtx context.Context) (job.Job, error) {
		j, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return job.Job{}, err
		}
		j, err = j.Extend(kind, s.extensionDays, time.Now())
		if err != nil {
			return job.Job{}, err
		}
		return s.repo.Update(txCtx, j)
	})
}

// Reconcile persists the demotion of jobs whose promotion window has lapsed,
// clearing the stored flags that EffectiveAt already ignores. Status is never
// touched. Returns the number of jobs updated; a batchSize of zero or less
// means no limit.
func (s *PromotionService) Reconcile(ctx context.Context, batchSize int) (int, error) {
	now := time.Now()
	jobs, _, err := s.repo.GetPaginated(ctx, &job.FindParams{
		PromotionExpiredBefore: &now,
		Limit:                  batchSize,
	})
	if err != nil {
		return 0, err
	}

	cleared := 0
	for _, j := range jobs {
		j, changed := j.ClearExpiredWindows(now)
		if !changed {
			continue
		}
		if _, err := s.repo.Update(ctx, j); err != nil {
			return cleared, err
		}
		cleared++
	}
	if cleared > 0 {
		metrics.PromotionsReconciled.Add(float64(cleared))
	}
	return cleared, nil
}
