package job

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FindParams struct {
	Status     *Status
	EmployerID *uuid.UUID
	Kind       *PromotionKind
	// PromotionExpiredBefore selects jobs whose featured or freelance window
	// ended at or before the given time while the flag is still set. Used by
	// the reconciliation pass.
	PromotionExpiredBefore *time.Time
	Limit                  int
	Offset                 int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Job, int64, error)
	Create(ctx context.Context, j Job) (Job, error)
	Update(ctx context.Context, j Job) (Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
