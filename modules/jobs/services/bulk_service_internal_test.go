package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLockJob_SameIDSharesLock(t *testing.T) {
	t.Parallel()
	s := NewBulkService(nil, nil)

	id := uuid.New()
	l1 := s.lockJob(id)
	l1.Unlock()
	l2 := s.lockJob(id)
	l2.Unlock()
	assert.Same(t, l1, l2)
}

func TestLockJob_TableIsBounded(t *testing.T) {
	t.Parallel()
	s := NewBulkService(nil, nil)

	seen := make(map[*sync.Mutex]struct{})
	for i := 0; i < 1000; i++ {
		l := s.lockJob(uuid.New())
		l.Unlock()
		seen[l] = struct{}{}
	}
	assert.LessOrEqual(t, len(seen), len(s.locks))
}
