package persistence

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/google/uuid"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
)

type SafeMap[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func NewSafeMap[K comparable, V any]() *SafeMap[K, V] {
	return &SafeMap[K, V]{
		m: make(map[K]V),
	}
}

func (s *SafeMap[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *SafeMap[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, found := s.m[key]
	return val, found
}

func (s *SafeMap[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

func (s *SafeMap[K, V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Values(s.m)
}

// InmemJobRepository backs the job repository with a map. Tests and local
// runs without Postgres use it; filtering mirrors what the SQL repository
// expresses in WHERE clauses.
type InmemJobRepository struct {
	storage *SafeMap[uuid.UUID, job.Job]
}

func NewInmemJobRepository() *InmemJobRepository {
	return &InmemJobRepository{
		storage: NewSafeMap[uuid.UUID, job.Job](),
	}
}

func (r *InmemJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, found := r.storage.Get(id)
	if !found {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (r *InmemJobRepository) GetPaginated(ctx context.Context, params *job.FindParams) ([]job.Job, int64, error) {
	if params == nil {
		params = &job.FindParams{}
	}
	all := r.storage.Values()
	matched := make([]job.Job, 0, len(all))
	for _, j := range all {
		if matchesJobParams(j, params) {
			matched = append(matched, j)
		}
	}
	sort.Slice(matched, func(i, k int) bool {
		return matched[i].CreatedAt().After(matched[k].CreatedAt())
	})
	total := int64(len(matched))

	if params.Offset > 0 {
		if params.Offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}
	return matched, total, nil
}

func matchesJobParams(j job.Job, params *job.FindParams) bool {
	if params == nil {
		return true
	}
	if params.Status != nil && j.Status() != *params.Status {
		return false
	}
	if params.EmployerID != nil && j.EmployerID() != *params.EmployerID {
		return false
	}
	if params.Kind != nil {
		switch *params.Kind {
		case job.KindFeatured:
			if !j.IsFeatured() {
				return false
			}
		case job.KindFreelance:
			if !j.IsFreelance() {
				return false
			}
		}
	}
	if params.PromotionExpiredBefore != nil {
		cutoff := *params.PromotionExpiredBefore
		featuredLapsed := j.IsFeatured() && j.FeaturedUntil() != nil && !j.FeaturedUntil().After(cutoff)
		freelanceLapsed := j.IsFreelance() && j.FreelanceUntil() != nil && !j.FreelanceUntil().After(cutoff)
		if !featuredLapsed && !freelanceLapsed {
			return false
		}
	}
	return true
}

func (r *InmemJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	r.storage.Set(j.ID(), j)
	return j, nil
}

func (r *InmemJobRepository) Update(ctx context.Context, j job.Job) (job.Job, error) {
	if _, found := r.storage.Get(j.ID()); !found {
		return job.Job{}, job.ErrNotFound
	}
	r.storage.Set(j.ID(), j)
	return j, nil
}

func (r *InmemJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, found := r.storage.Get(id); !found {
		return job.ErrNotFound
	}
	r.storage.Delete(id)
	return nil
}
