package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/infrastructure/persistence/models"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
	"github.com/hulujobs/hulujobs-sdk/pkg/repo"
)

const requestColumns = `id, job_id, employer_id, kind,
	amount, currency, transaction_ref, screenshot_url,
	status, submitted_at, processed_at, processed_by, admin_notes`

type PgRequestRepository struct{}

func NewRequestRepository() promotionrequest.Repository {
	return &PgRequestRepository{}
}

func (r *PgRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (promotionrequest.PromotionRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return promotionrequest.PromotionRequest{}, err
	}

	row := tx.QueryRow(ctx, `SELECT `+requestColumns+` FROM promotion_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return promotionrequest.PromotionRequest{}, promotionrequest.ErrNotFound
		}
		return promotionrequest.PromotionRequest{}, gerrors.Wrap(err, "get promotion request")
	}
	return req, nil
}

func (r *PgRequestRepository) GetPaginated(
	ctx context.Context, params *promotionrequest.FindParams,
) ([]promotionrequest.PromotionRequest, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildRequestFilters(params)
	query := `SELECT ` + requestColumns + ` FROM promotion_requests WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY submitted_at DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list promotion requests")
	}
	defer rows.Close()

	var results []promotionrequest.PromotionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, gerrors.Wrap(err, "scan promotion request")
		}
		results = append(results, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, gerrors.Wrap(err, "list promotion requests")
	}

	var total int64
	if err := tx.QueryRow(
		ctx, `SELECT COUNT(*) FROM promotion_requests WHERE `+strings.Join(where, " AND "), args...,
	).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count promotion requests")
	}
	return results, total, nil
}

func (r *PgRequestRepository) Create(
	ctx context.Context, req promotionrequest.PromotionRequest,
) (promotionrequest.PromotionRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return promotionrequest.PromotionRequest{}, err
	}

	row := toDBRequest(req)
	_, err = tx.Exec(ctx, `
		INSERT INTO promotion_requests (
			id, job_id, employer_id, kind,
			amount, currency, transaction_ref, screenshot_url,
			status, submitted_at, processed_at, processed_by, admin_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		row.ID, row.JobID, row.EmployerID, row.Kind,
		row.Amount, row.Currency, row.TransactionRef, row.ScreenshotURL,
		row.Status, row.SubmittedAt, row.ProcessedAt, row.ProcessedBy, row.AdminNotes,
	)
	if err != nil {
		return promotionrequest.PromotionRequest{}, gerrors.Wrap(err, "create promotion request")
	}
	return r.GetByID(ctx, req.ID())
}

func (r *PgRequestRepository) Update(
	ctx context.Context, req promotionrequest.PromotionRequest,
) (promotionrequest.PromotionRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return promotionrequest.PromotionRequest{}, err
	}

	row := toDBRequest(req)
	tag, err := tx.Exec(ctx, `
		UPDATE promotion_requests SET
			status = $2, processed_at = $3, processed_by = $4, admin_notes = $5
		WHERE id = $1`,
		row.ID, row.Status, row.ProcessedAt, row.ProcessedBy, row.AdminNotes,
	)
	if err != nil {
		return promotionrequest.PromotionRequest{}, gerrors.Wrap(err, "update promotion request")
	}
	if tag.RowsAffected() == 0 {
		return promotionrequest.PromotionRequest{}, promotionrequest.ErrNotFound
	}
	return r.GetByID(ctx, req.ID())
}

func scanRequest(row pgx.Row) (promotionrequest.PromotionRequest, error) {
	var m models.PromotionRequest
	if err := row.Scan(
		&m.ID, &m.JobID, &m.EmployerID, &m.Kind,
		&m.Amount, &m.Currency, &m.TransactionRef, &m.ScreenshotURL,
		&m.Status, &m.SubmittedAt, &m.ProcessedAt, &m.ProcessedBy, &m.AdminNotes,
	); err != nil {
		return promotionrequest.PromotionRequest{}, err
	}
	return toDomainRequest(&m)
}

func buildRequestFilters(params *promotionrequest.FindParams) ([]string, []interface{}) {
	where := []string{"1 = 1"}
	args := []interface{}{}
	argPos := 1
	if params == nil {
		return where, args
	}

	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*params.Status))
		argPos++
	}
	if params.JobID != nil {
		where = append(where, fmt.Sprintf("job_id = $%d", argPos))
		args = append(args, *params.JobID)
		argPos++
	}
	if params.Kind != nil {
		where = append(where, fmt.Sprintf("kind = $%d", argPos))
		args = append(args, string(*params.Kind))
		argPos++
	}
	return where, args
}
