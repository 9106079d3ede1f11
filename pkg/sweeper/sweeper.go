package sweeper

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Task is one sweep pass. It returns how many records it touched; errors are
// logged and retried with backoff on the next cycle.
type Task func(ctx context.Context) (int, error)

type Options struct {
	PollInterval time.Duration
	MaxBackoff   time.Duration
	Logger       *logrus.Entry
}

// Runner executes a Task on a poll interval. A failing task backs off
// exponentially until it succeeds again; skipped cycles are safe because
// every task is required to be idempotent.
type Runner struct {
	task Task
	opts Options
	rng  *rand.Rand
}

func New(task Task, opts Options) *Runner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Minute
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Runner{
		task: task,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
	}
}

func (r *Runner) Run(ctx context.Context) error {
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		touched, err := r.task(ctx)
		if err != nil {
			failures++
			r.opts.Logger.WithError(err).WithField("failures", failures).Warn("sweeper: pass failed")
		} else {
			if touched > 0 {
				r.opts.Logger.WithField("touched", touched).Info("sweeper: pass completed")
			}
			failures = 0
		}

		wait := r.opts.PollInterval
		if failures > 0 {
			wait += backoff(failures, r.opts.MaxBackoff) + r.jitter(r.opts.PollInterval/4)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func backoff(attempts int, maxBackoff time.Duration) time.Duration {
	if attempts <= 0 {
		return 0
	}
	// Past 2^32 seconds the duration arithmetic overflows int64, so the cap
	// takes over before the exponent gets there.
	if attempts > 32 {
		return maxBackoff
	}
	// 1s * 2^(attempts-1)
	seconds := math.Pow(2, float64(attempts-1))
	d := time.Duration(seconds * float64(time.Second))
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func (r *Runner) jitter(maxJitter time.Duration) time.Duration {
	if maxJitter <= 0 {
		return 0
	}
	return time.Duration(r.rng.Int63n(int64(maxJitter) + 1))
}
