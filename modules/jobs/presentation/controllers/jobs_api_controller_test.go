package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/handlers"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/infrastructure/persistence"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/presentation/controllers"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/services"
	"github.com/hulujobs/hulujobs-sdk/pkg/application"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
	"github.com/hulujobs/hulujobs-sdk/pkg/notification"
)

type apiFixture struct {
	router   *mux.Router
	jobs     *persistence.InmemJobRepository
	recorder *notification.Recorder
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	jobs := persistence.NewInmemJobRepository()
	requests := persistence.NewInmemRequestRepository()
	app.RegisterServices(
		services.NewJobService(jobs, app.EventPublisher()),
		services.NewPromotionService(jobs, app.EventPublisher(), 30),
		services.NewApprovalService(jobs, requests, app.EventPublisher(), 30),
		services.NewBulkService(jobs, app.EventPublisher()),
	)
	recorder := notification.NewRecorder()
	handlers.RegisterNotificationHandlers(app, recorder)

	router := mux.NewRouter()
	controllers.NewJobsAPIController(app).Register(router)
	return &apiFixture{router: router, jobs: jobs, recorder: recorder}
}

func (f *apiFixture) seedJob(t *testing.T, status job.Status) job.Job {
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

func (f *apiFixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestBulkEndpoint_ItemIsolationAndNotificationFanOut(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	j := f.seedJob(t, job.StatusPending)
	missing := uuid.New()

	w := f.post(t, "/jobs/api/jobs/bulk", map[string]any{
		"ids": []uuid.UUID{j.ID(), missing},
		"action": map[string]any{
			"type":   "status_change",
			"status": "rejected",
			"notes":  "spam",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items map[string]struct {
			Outcome string `json:"outcome"`
			Reason  string `json:"reason"`
		} `json:"items"`
		NotificationsQueued int `json:"notifications_queued"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "applied", resp.Items[j.ID().String()].Outcome)
	assert.Equal(t, "failed", resp.Items[missing.String()].Outcome)
	assert.Contains(t, resp.Items[missing.String()].Reason, "not found")
	assert.Equal(t, 1, resp.NotificationsQueued)

	// The failed item must not keep the applied one from persisting.
	stored, err := f.jobs.GetByID(context.Background(), j.ID())
	require.NoError(t, err)
	assert.Equal(t, job.StatusRejected, stored.Status())

	// Only the persisted rejection notifies the employer.
	msgs := f.recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, j.EmployerID(), msgs[0].UserID)
	assert.Contains(t, msgs[0].Body, "spam")
}

func TestStatusEndpoint_RejectionNotifiesEmployer(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	j := f.seedJob(t, job.StatusPending)
	w := f.post(t, fmt.Sprintf("/jobs/api/jobs/%s/status", j.ID()), map[string]any{
		"status": "rejected",
		"notes":  "duplicate posting",
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.jobs.GetByID(context.Background(), j.ID())
	require.NoError(t, err)
	assert.Equal(t, job.StatusRejected, stored.Status())

	msgs := f.recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "duplicate posting")
}

func TestStatusEndpoint_InvalidTransitionLeavesJobUntouched(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	j := f.seedJob(t, job.StatusPending)
	w := f.post(t, fmt.Sprintf("/jobs/api/jobs/%s/status", j.ID()), map[string]any{
		"status": "featured",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	stored, err := f.jobs.GetByID(context.Background(), j.ID())
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, stored.Status())
	assert.Empty(t, f.recorder.Messages())
}
