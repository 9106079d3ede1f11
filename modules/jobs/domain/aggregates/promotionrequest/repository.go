package promotionrequest

import (
	"context"

	"github.com/google/uuid"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
)

type FindParams struct {
	Status *Status
	JobID  *uuid.UUID
	Kind   *job.PromotionKind
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (PromotionRequest, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]PromotionRequest, int64, error)
	Create(ctx context.Context, r PromotionRequest) (PromotionRequest, error)
	Update(ctx context.Context, r PromotionRequest) (PromotionRequest, error)
}
