package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
	"github.com/hulujobs/hulujobs-sdk/pkg/metrics"
)

// ApprovalService turns pending promotion requests into terminal decisions
// and drives the coupled job mutation. The job write always lands before the
// request write so that a crash between the two leaves a re-processable
// state: job promoted, request still pending. Re-running the approval then
// converges because granting an unexpired window is a no-op.
type ApprovalService struct {
	jobs         job.Repository
	requests     promotionrequest.Repository
	publisher    eventbus.EventBus
	durationDays int
}

func NewApprovalService(
	jobs job.Repository,
	requests promotionrequest.Repository,
	publisher eventbus.EventBus,
	durationDays int,
) *ApprovalService {
	return &ApprovalService{
		jobs:         jobs,
		requests:     requests,
		publisher:    publisher,
		durationDays: durationDays,
	}
}

func (s *ApprovalService) GetRequest(ctx context.Context, id uuid.UUID) (promotionrequest.PromotionRequest, error) {
	return s.requests.GetByID(ctx, id)
}

func (s *ApprovalService) GetRequestsPaginated(
	ctx context.Context, params *promotionrequest.FindParams,
) ([]promotionrequest.PromotionRequest, int64, error) {
	return s.requests.GetPaginated(ctx, params)
}

// SubmitRequest records employer payment evidence as a pending request.
func (s *ApprovalService) SubmitRequest(
	ctx context.Context, r promotionrequest.PromotionRequest,
) (promotionrequest.PromotionRequest, error) {
	if _, err := s.jobs.GetByID(ctx, r.JobID()); err != nil {
		return promotionrequest.PromotionRequest{}, err
	}
	return s.requests.Create(ctx, r)
}

type approvalOutcome struct {
	request promotionrequest.PromotionRequest
	job     job.Job
}

// Approve grants the requested promotion window and activates the job.
// Approving a promotion implies moderation approval: a pending job becomes
// visible the moment its request is approved.
func (s *ApprovalService) Approve(ctx context.Context, requestID uuid.UUID) (promotionrequest.PromotionRequest, error) {
	if err := authorizeJobs(ctx, RequestsAuthzObject, "approve"); err != nil {
		return promotionrequest.PromotionRequest{}, err
	}
	actor, _ := composables.UseActor(ctx)
	now := time.Now()

	out, err := composables.InTxResult(ctx, func(txCtx context.Context) (approvalOutcome, error) {
		r, err := s.requests.GetByID(txCtx, requestID)
		if err != nil {
			return approvalOutcome{}, err
		}
		r, err = r.Approve(actor.ID, now)
		if err != nil {
			return approvalOutcome{}, err
		}

		j, err := s.jobs.GetByID(txCtx, r.JobID())
		if err != nil {
			return approvalOutcome{}, err
		}
		j = j.Grant(r.Kind(), now.AddDate(0, 0, s.durationDays), now)
		j, err = j.Transition(job.StatusActive)
		if err != nil {
			return approvalOutcome{}, err
		}

		// Job first, request second.
		if j, err = s.jobs.Update(txCtx, j); err != nil {
			return approvalOutcome{}, err
		}
		if r, err = s.requests.Update(txCtx, r); err != nil {
			return approvalOutcome{}, err
		}
		return approvalOutcome{request: r, job: j}, nil
	})
	if err != nil {
		return promotionrequest.PromotionRequest{}, err
	}

	metrics.ApprovalDecisions.WithLabelValues(string(promotionrequest.DecisionApproved)).Inc()
	s.publisher.Publish(promotionrequest.NewProcessedEvent(out.request, out.job, promotionrequest.DecisionApproved, ""))
	return out.request, nil
}

// Reject closes the request without touching the job. The promotion was
// never granted, so there is nothing to revert; the employer is notified
// with the reason via the event subscriber.
func (s *ApprovalService) Reject(ctx context.Context, requestID uuid.UUID, reason string) (promotionrequest.PromotionRequest, error) {
	if err := authorizeJobs(ctx, RequestsAuthzObject, "reject"); err != nil {
		return promotionrequest.PromotionRequest{}, err
	}
	actor, _ := composables.UseActor(ctx)
	now := time.Now()

	out, err := composables.InTxResult(ctx, func(txCtx context.Context) (approvalOutcome, error) {
		r, err := s.requests.GetByID(txCtx, requestID)
		if err != nil {
			return approvalOutcome{}, err
		}
		r, err = r.Reject(actor.ID, reason, now)
		if err != nil {
			return approvalOutcome{}, err
		}

		j, err := s.jobs.GetByID(txCtx, r.JobID())
		if err != nil {
			return approvalOutcome{}, err
		}
		if r, err = s.requests.Update(txCtx, r); err != nil {
			return approvalOutcome{}, err
		}
		return approvalOutcome{request: r, job: j}, nil
	})
	if err != nil {
		return promotionrequest.PromotionRequest{}, err
	}

	metrics.ApprovalDecisions.WithLabelValues(string(promotionrequest.DecisionRejected)).Inc()
	s.publisher.Publish(promotionrequest.NewProcessedEvent(out.request, out.job, promotionrequest.DecisionRejected, reason))
	return out.request, nil
}

// ReviewJob is the combined first-time review of a freshly submitted
// promoted job, where no separate payment request exists. Approval grants
// the window and activates the job; decline parks the job in inactive, not
// rejected, so the employer can amend and resubmit without a status reset.
func (s *ApprovalService) ReviewJob(
	ctx context.Context, jobID uuid.UUID, kind job.PromotionKind, approve bool, notes string,
) (job.Job, error) {
	if err := authorizeJobs(ctx, JobsAuthzObject, "review"); err != nil {
		return job.Job{}, err
	}
	now := time.Now()

	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (job.Job, error) {
		j, err := s.jobs.GetByID(txCtx, jobID)
		if err != nil {
			return job.Job{}, err
		}

		if approve {
			j = j.Grant(kind, now.AddDate(0, 0, s.durationDays), now)
			if j, err = j.Transition(job.StatusActive); err != nil {
				return job.Job{}, err
			}
		} else {
			j = j.Decline()
		}
		return s.jobs.Update(txCtx, j.WithAdminNotes(notes))
	})
	if err != nil {
		return job.Job{}, err
	}

	s.publisher.Publish(job.NewReviewCompletedEvent(updated, kind, approve, notes))
	return updated, nil
}
