package persistence

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
)

// InmemRequestRepository is the map-backed twin of the SQL promotion request
// repository.
type InmemRequestRepository struct {
	storage *SafeMap[uuid.UUID, promotionrequest.PromotionRequest]
}

func NewInmemRequestRepository() *InmemRequestRepository {
	return &InmemRequestRepository{
		storage: NewSafeMap[uuid.UUID, promotionrequest.PromotionRequest](),
	}
}

func (r *InmemRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (promotionrequest.PromotionRequest, error) {
	req, found := r.storage.Get(id)
	if !found {
		return promotionrequest.PromotionRequest{}, promotionrequest.ErrNotFound
	}
	return req, nil
}

func (r *InmemRequestRepository) GetPaginated(
	ctx context.Context, params *promotionrequest.FindParams,
) ([]promotionrequest.PromotionRequest, int64, error) {
	if params == nil {
		params = &promotionrequest.FindParams{}
	}
	all := r.storage.Values()
	matched := make([]promotionrequest.PromotionRequest, 0, len(all))
	for _, req := range all {
		if matchesRequestParams(req, params) {
			matched = append(matched, req)
		}
	}
	sort.Slice(matched, func(i, k int) bool {
		return matched[i].SubmittedAt().After(matched[k].SubmittedAt())
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

func matchesRequestParams(req promotionrequest.PromotionRequest, params *promotionrequest.FindParams) bool {
	if params == nil {
		return true
	}
	if params.Status != nil && req.Status() != *params.Status {
		return false
	}
	if params.JobID != nil && req.JobID() != *params.JobID {
		return false
	}
	if params.Kind != nil && req.Kind() != *params.Kind {
		return false
	}
	return true
}

func (r *InmemRequestRepository) Create(
	ctx context.Context, req promotionrequest.PromotionRequest,
) (promotionrequest.PromotionRequest, error) {
	r.storage.Set(req.ID(), req)
	return req, nil
}

func (r *InmemRequestRepository) Update(
	ctx context.Context, req promotionrequest.PromotionRequest,
) (promotionrequest.PromotionRequest, error) {
	if _, found := r.storage.Get(req.ID()); !found {
		return promotionrequest.PromotionRequest{}, promotionrequest.ErrNotFound
	}
	r.storage.Set(req.ID(), req)
	return req, nil
}
