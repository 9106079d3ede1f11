package sweeper_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulujobs/hulujobs-sdk/pkg/sweeper"
)

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func TestRunner_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	var passes atomic.Int32
	runner := sweeper.New(func(ctx context.Context) (int, error) {
		passes.Add(1)
		return 0, nil
	}, sweeper.Options{
		PollInterval: 5 * time.Millisecond,
		Logger:       quietLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	assert.Eventually(t, func() bool { return passes.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

func TestRunner_KeepsRunningAfterTaskError(t *testing.T) {
	t.Parallel()

	var passes atomic.Int32
	runner := sweeper.New(func(ctx context.Context) (int, error) {
		if passes.Add(1) == 1 {
			return 0, errors.New("transient")
		}
		return 1, nil
	}, sweeper.Options{
		PollInterval: time.Millisecond,
		MaxBackoff:   time.Millisecond,
		Logger:       quietLogger(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		_ = runner.Run(ctx)
	}()

	assert.Eventually(t, func() bool { return passes.Load() >= 3 }, 4*time.Second, time.Millisecond)
}
