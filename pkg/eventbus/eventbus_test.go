package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
)

type createdEvent struct {
	ID string
}

type otherEvent struct {
	N int
}

func newBus() eventbus.EventBus {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(logger)
}

func TestPublish_DeliversToMatchingSubscriber(t *testing.T) {
	t.Parallel()
	bus := newBus()

	var got []string
	bus.Subscribe(func(ev createdEvent) {
		got = append(got, ev.ID)
	})
	bus.Subscribe(func(ev otherEvent) {
		t.Errorf("unexpected delivery: %v", ev)
	})

	bus.Publish(createdEvent{ID: "a"})
	bus.Publish(createdEvent{ID: "b"})

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestPublish_PointerEvents(t *testing.T) {
	t.Parallel()
	bus := newBus()

	var got *createdEvent
	bus.Subscribe(func(ev *createdEvent) {
		got = ev
	})

	bus.Publish(&createdEvent{ID: "ptr"})
	assert.NotNil(t, got)
	assert.Equal(t, "ptr", got.ID)
}

func TestPublish_RecoversFromPanickingHandler(t *testing.T) {
	t.Parallel()
	bus := newBus()

	delivered := false
	bus.Subscribe(func(ev createdEvent) {
		panic("boom")
	})
	bus.Subscribe(func(ev createdEvent) {
		delivered = true
	})

	assert.NotPanics(t, func() {
		bus.Publish(createdEvent{ID: "x"})
	})
	assert.True(t, delivered)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()
	bus := newBus()

	calls := 0
	handler := func(ev createdEvent) { calls++ }
	bus.Subscribe(handler)
	assert.Equal(t, 1, bus.SubscribersCount())

	bus.Publish(createdEvent{})
	bus.Unsubscribe(handler)
	bus.Publish(createdEvent{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestClear(t *testing.T) {
	t.Parallel()
	bus := newBus()

	bus.Subscribe(func(ev createdEvent) {})
	bus.Subscribe(func(ev otherEvent) {})
	bus.Clear()

	assert.Equal(t, 0, bus.SubscribersCount())
}
