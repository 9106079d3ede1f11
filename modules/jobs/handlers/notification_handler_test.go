package handlers_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/handlers"
	"github.com/hulujobs/hulujobs-sdk/pkg/application"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
	"github.com/hulujobs/hulujobs-sdk/pkg/notification"
)

func newHandlerFixture(t *testing.T) (application.Application, *notification.Recorder) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	recorder := notification.NewRecorder()
	handlers.RegisterNotificationHandlers(app, recorder)
	return app, recorder
}

func seedJob(t *testing.T, status job.Status) job.Job {
	t.Helper()
	j := job.New(uuid.New(), "Backend Engineer", time.Now().AddDate(0, 1, 0))
	if status == job.StatusPending {
		return j
	}
	j, err := j.Transition(status)
	require.NoError(t, err)
	return j
}

func TestRejectionStatusChangeNotifiesEmployer(t *testing.T) {
	t.Parallel()
	app, recorder := newHandlerFixture(t)

	j := seedJob(t, job.StatusPending)
	rejected, err := j.Transition(job.StatusRejected)
	require.NoError(t, err)

	app.EventPublisher().Publish(job.NewStatusChangedEvent(rejected, job.StatusPending, job.StatusRejected, "spam"))

	msgs := recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, j.EmployerID(), msgs[0].UserID)
	assert.Equal(t, j.ID(), msgs[0].JobID)
	assert.Contains(t, msgs[0].Body, "spam")
	assert.False(t, msgs[0].CreatedAt.IsZero())
}

func TestNonRejectionStatusChangeIsSilent(t *testing.T) {
	t.Parallel()
	app, recorder := newHandlerFixture(t)

	j := seedJob(t, job.StatusActive)
	app.EventPublisher().Publish(job.NewStatusChangedEvent(j, job.StatusPending, job.StatusActive, ""))

	assert.Empty(t, recorder.Messages())
}

func TestRejectedRequestNotifiesEmployer(t *testing.T) {
	t.Parallel()
	app, recorder := newHandlerFixture(t)

	j := seedJob(t, job.StatusPending)
	r := promotionrequest.New(j.ID(), j.EmployerID(), job.KindFeatured, decimal.NewFromInt(49), "USD", "tx-1", nil)
	rejected, err := r.Reject(uuid.New(), "invalid screenshot", time.Now())
	require.NoError(t, err)

	app.EventPublisher().Publish(promotionrequest.NewProcessedEvent(rejected, j, promotionrequest.DecisionRejected, "invalid screenshot"))

	msgs := recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, r.EmployerID(), msgs[0].UserID)
	assert.Contains(t, msgs[0].Body, "invalid screenshot")
	assert.Contains(t, msgs[0].Body, "featured")
}

func TestApprovedRequestIsSilent(t *testing.T) {
	t.Parallel()
	app, recorder := newHandlerFixture(t)

	j := seedJob(t, job.StatusActive)
	r := promotionrequest.New(j.ID(), j.EmployerID(), job.KindFeatured, decimal.NewFromInt(49), "USD", "tx-1", nil)
	approved, err := r.Approve(uuid.New(), time.Now())
	require.NoError(t, err)

	app.EventPublisher().Publish(promotionrequest.NewProcessedEvent(approved, j, promotionrequest.DecisionApproved, ""))

	assert.Empty(t, recorder.Messages())
}

func TestDeclinedReviewNotifiesEmployer(t *testing.T) {
	t.Parallel()
	app, recorder := newHandlerFixture(t)

	j := seedJob(t, job.StatusPending).Decline()
	app.EventPublisher().Publish(job.NewReviewCompletedEvent(j, job.KindFreelance, false, "incomplete description"))

	msgs := recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "incomplete description")
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	app, recorder := newHandlerFixture(t)
	recorder.FailWith(errors.New("queue unavailable"))

	j := seedJob(t, job.StatusPending)
	rejected, err := j.Transition(job.StatusRejected)
	require.NoError(t, err)

	// Publish must not panic or surface the delivery error.
	app.EventPublisher().Publish(job.NewStatusChangedEvent(rejected, job.StatusPending, job.StatusRejected, ""))
	assert.Empty(t, recorder.Messages())
}
