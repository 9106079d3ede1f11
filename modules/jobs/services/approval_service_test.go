package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/infrastructure/persistence"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/services"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
)

const testDurationDays = 30

type approvalFixture struct {
	jobs     *persistence.InmemJobRepository
	requests *persistence.InmemRequestRepository
	bus      eventbus.EventBus
	svc      *services.ApprovalService
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	jobs := persistence.NewInmemJobRepository()
	requests := persistence.NewInmemRequestRepository()
	bus := eventbus.NewEventPublisher(log)
	return &approvalFixture{
		jobs:     jobs,
		requests: requests,
		bus:      bus,
		svc:      services.NewApprovalService(jobs, requests, bus, testDurationDays),
	}
}

func (f *approvalFixture) seedJob(t *testing.T, status job.Status) job.Job {
	t.Helper()
	j := job.New(uuid.New(), "Backend Engineer", time.Now().AddDate(0, 1, 0))
	if status != job.StatusPending {
		var err error
		j, err = j.Transition(status)
		require.NoError(t, err)
	}
	j, err := f.jobs.Create(context.Background(), j)
	require.NoError(t, err)
	return j
}

func (f *approvalFixture) seedRequest(t *testing.T, jobID uuid.UUID, kind job.PromotionKind) promotionrequest.PromotionRequest {
	t.Helper()
	r := promotionrequest.New(jobID, uuid.New(), kind, decimal.NewFromInt(49), "USD", "tx-1", nil)
	r, err := f.requests.Create(context.Background(), r)
	require.NoError(t, err)
	return r
}

func TestApprove_GrantsWindowAndActivates(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)
	ctx := context.Background()

	j := f.seedJob(t, job.StatusPending)
	r := f.seedRequest(t, j.ID(), job.KindFeatured)

	processed, err := f.svc.Approve(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, promotionrequest.StatusApproved, processed.Status())
	require.NotNil(t, processed.ProcessedAt())

	stored, err := f.jobs.GetByID(ctx, j.ID())
	require.NoError(t, err)
	assert.Equal(t, job.StatusActive, stored.Status())
	assert.True(t, stored.IsFeatured())
	require.NotNil(t, stored.FeaturedUntil())
	assert.WithinDuration(t, time.Now().AddDate(0, 0, testDurationDays), *stored.FeaturedUntil(), time.Minute)
}

func TestApprove_SecondCallIsAlreadyProcessed(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)
	ctx := context.Background()

	j := f.seedJob(t, job.StatusPending)
	r := f.seedRequest(t, j.ID(), job.KindFreelance)

	_, err := f.svc.Approve(ctx, r.ID())
	require.NoError(t, err)

	first, err := f.jobs.GetByID(ctx, j.ID())
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, r.ID())
	require.ErrorIs(t, err, promotionrequest.ErrAlreadyProcessed)

	second, err := f.jobs.GetByID(ctx, j.ID())
	require.NoError(t, err)
	require.NotNil(t, second.FreelanceUntil())
	assert.True(t, second.FreelanceUntil().Equal(*first.FreelanceUntil()))
}

func TestApprove_ConvergesAfterPartialFailure(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)
	ctx := context.Background()

	// Job already promoted, request still pending: the state a crash between
	// the two writes leaves behind.
	j := f.seedJob(t, job.StatusActive)
	until := time.Now().AddDate(0, 0, 20)
	j = j.Grant(job.KindFeatured, until, time.Now())
	_, err := f.jobs.Update(ctx, j)
	require.NoError(t, err)
	r := f.seedRequest(t, j.ID(), job.KindFeatured)

	processed, err := f.svc.Approve(ctx, r.ID())
	require.NoError(t, err)
	assert.Equal(t, promotionrequest.StatusApproved, processed.Status())

	stored, err := f.jobs.GetByID(ctx, j.ID())
	require.NoError(t, err)
	require.NotNil(t, stored.FeaturedUntil())
	assert.True(t, stored.FeaturedUntil().Equal(until), "window must not double-extend")
}

func TestApprove_RejectedJobFailsAndRequestStaysPending(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)
	ctx := context.Background()

	j := f.seedJob(t, job.StatusPending)
	rejected, err := j.Transition(job.StatusRejected)
	require.NoError(t, err)
	_, err = f.jobs.Update(ctx, rejected)
	require.NoError(t, err)
	r := f.seedRequest(t, j.ID(), job.KindFeatured)

	_, err = f.svc.Approve(ctx, r.ID())
	require.ErrorIs(t, err, job.ErrInvalidTransition)

	stored, err := f.requests.GetByID(ctx, r.ID())
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
}

func TestApprove_UnknownRequest(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)

	_, err := f.svc.Approve(context.Background(), uuid.New())
	require.ErrorIs(t, err, promotionrequest.ErrNotFound)
}

func TestReject_LeavesJobUntouchedAndPublishes(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)
	ctx := context.Background()

	var got *promotionrequest.ProcessedEvent
	f.bus.Subscribe(func(e *promotionrequest.ProcessedEvent) { got = e })

	j := f.seedJob(t, job.StatusPending)
	r := f.seedRequest(t, j.ID(), job.KindFeatured)

	processed, err := f.svc.Reject(ctx, r.ID(), "invalid screenshot")
	require.NoError(t, err)
	assert.Equal(t, promotionrequest.StatusRejected, processed.Status())
	require.NotNil(t, processed.AdminNotes())
	assert.Equal(t, "invalid screenshot", *processed.AdminNotes())

	stored, err := f.jobs.GetByID(ctx, j.ID())
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, stored.Status())
	assert.False(t, stored.IsFeatured())

	require.NotNil(t, got)
	assert.Equal(t, promotionrequest.DecisionRejected, got.Decision)
	assert.Equal(t, "invalid screenshot", got.Reason)
	assert.Equal(t, j.ID(), got.Job.ID())
}

func TestSubmitRequest_UnknownJob(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)

	r := promotionrequest.New(uuid.New(), uuid.New(), job.KindFeatured, decimal.NewFromInt(49), "USD", "tx-9", nil)
	_, err := f.svc.SubmitRequest(context.Background(), r)
	require.ErrorIs(t, err, job.ErrNotFound)
}

func TestReviewJob_ApproveFreelance(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)
	ctx := context.Background()

	j := f.seedJob(t, job.StatusPending)

	reviewed, err := f.svc.ReviewJob(ctx, j.ID(), job.KindFreelance, true, "looks good")
	require.NoError(t, err)
	assert.Equal(t, job.StatusActive, reviewed.Status())
	assert.True(t, reviewed.IsFreelance())
	require.NotNil(t, reviewed.FreelanceUntil())
	assert.WithinDuration(t, time.Now().AddDate(0, 0, testDurationDays), *reviewed.FreelanceUntil(), time.Minute)
}

func TestReviewJob_DeclineParksInactive(t *testing.T) {
	t.Parallel()
	f := newApprovalFixture(t)
	ctx := context.Background()

	var got *job.ReviewCompletedEvent
	f.bus.Subscribe(func(e *job.ReviewCompletedEvent) { got = e })

	j := f.seedJob(t, job.StatusPending)

	reviewed, err := f.svc.ReviewJob(ctx, j.ID(), job.KindFreelance, false, "incomplete description")
	require.NoError(t, err)
	assert.Equal(t, job.StatusInactive, reviewed.Status())
	assert.False(t, reviewed.IsFreelance())
	require.NotNil(t, reviewed.AdminNotes())
	assert.Equal(t, "incomplete description", *reviewed.AdminNotes())

	require.NotNil(t, got)
	assert.False(t, got.Approved)
	assert.Equal(t, "incomplete description", got.Notes)
}
