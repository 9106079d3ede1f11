package sweeper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	t.Parallel()
	maxBackoff := 5 * time.Minute

	cases := []struct {
		name     string
		attempts int
		want     time.Duration
	}{
		{"zero attempts", 0, 0},
		{"first failure", 1, time.Second},
		{"fourth failure", 4, 8 * time.Second},
		{"capped", 20, maxBackoff},
		{"deep outage stays capped", 40, maxBackoff},
		{"extreme attempt count stays capped", 500, maxBackoff},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := backoff(tc.attempts, maxBackoff)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, time.Duration(0))
		})
	}
}
