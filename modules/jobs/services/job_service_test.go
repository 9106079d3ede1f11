package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/infrastructure/persistence"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/services"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
)

type jobFixture struct {
	jobs *persistence.InmemJobRepository
	bus  eventbus.EventBus
	svc  *services.JobService
}

func newJobFixture(t *testing.T) *jobFixture {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	jobs := persistence.NewInmemJobRepository()
	bus := eventbus.NewEventPublisher(log)
	return &jobFixture{
		jobs: jobs,
		bus:  bus,
		svc:  services.NewJobService(jobs, bus),
	}
}

func TestJobCreate(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()

	var created *job.CreatedEvent
	f.bus.Subscribe(func(e *job.CreatedEvent) { created = e })

	employer := uuid.New()
	j, err := f.svc.Create(ctx, employer, "Site Reliability Engineer", time.Now().AddDate(0, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, j.Status())

	stored, err := f.jobs.GetByID(ctx, j.ID())
	require.NoError(t, err)
	assert.Equal(t, employer, stored.EmployerID())
	require.NotNil(t, created)
	assert.Equal(t, j.ID(), created.Job.ID())
}

func TestChangeStatus_PublishesEvent(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()

	var got *job.StatusChangedEvent
	f.bus.Subscribe(func(e *job.StatusChangedEvent) { got = e })

	j, err := f.svc.Create(ctx, uuid.New(), "Backend Engineer", time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)

	updated, err := f.svc.ChangeStatus(ctx, j.ID(), job.StatusActive, "approved after review")
	require.NoError(t, err)
	assert.Equal(t, job.StatusActive, updated.Status())
	require.NotNil(t, updated.AdminNotes())
	assert.Equal(t, "approved after review", *updated.AdminNotes())

	require.NotNil(t, got)
	assert.Equal(t, job.StatusPending, got.From)
	assert.Equal(t, job.StatusActive, got.To)
}

func TestChangeStatus_SameStatusPublishesNothing(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()

	published := 0
	f.bus.Subscribe(func(e *job.StatusChangedEvent) { published++ })

	j, err := f.svc.Create(ctx, uuid.New(), "Backend Engineer", time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)

	updated, err := f.svc.ChangeStatus(ctx, j.ID(), job.StatusPending, "noop")
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, updated.Status())
	assert.Nil(t, updated.AdminNotes())
	assert.Zero(t, published)
}

func TestChangeStatus_IllegalTransition(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()

	j, err := f.svc.Create(ctx, uuid.New(), "Backend Engineer", time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)

	_, err = f.svc.ChangeStatus(ctx, j.ID(), job.StatusFeatured, "")
	require.ErrorIs(t, err, job.ErrInvalidTransition)

	stored, err := f.jobs.GetByID(ctx, j.ID())
	require.NoError(t, err)
	assert.Equal(t, job.StatusPending, stored.Status())
}

func TestChangeStatus_NotFound(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)

	_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), job.StatusActive, "")
	require.ErrorIs(t, err, job.ErrNotFound)
}

func TestJobDelete(t *testing.T) {
	t.Parallel()
	f := newJobFixture(t)
	ctx := context.Background()

	var deleted *job.DeletedEvent
	f.bus.Subscribe(func(e *job.DeletedEvent) { deleted = e })

	j, err := f.svc.Create(ctx, uuid.New(), "Backend Engineer", time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, j.ID()))
	_, err = f.jobs.GetByID(ctx, j.ID())
	require.ErrorIs(t, err, job.ErrNotFound)
	require.NotNil(t, deleted)

	require.ErrorIs(t, f.svc.Delete(ctx, j.ID()), job.ErrNotFound)
}
