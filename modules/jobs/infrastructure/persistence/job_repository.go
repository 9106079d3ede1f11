package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/infrastructure/persistence/models"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
	"github.com/hulujobs/hulujobs-sdk/pkg/repo"
)

const jobColumns = `id, employer_id, title, status,
	is_featured, featured_until, is_freelance, freelance_until,
	deadline, admin_notes, created_at, updated_at`

type PgJobRepository struct{}

func NewJobRepository() job.Repository {
	return &PgJobRepository{}
}

func (r *PgJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return job.Job{}, err
	}

	row := tx.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, gerrors.Wrap(err, "get job")
	}
	return j, nil
}

func (r *PgJobRepository) GetPaginated(ctx context.Context, params *job.FindParams) ([]job.Job, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildJobFilters(params)
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list jobs")
	}
	defer rows.Close()

	var results []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, gerrors.Wrap(err, "scan job")
		}
		results = append(results, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, gerrors.Wrap(err, "list jobs")
	}

	var total int64
	if err := tx.QueryRow(
		ctx, `SELECT COUNT(*) FROM jobs WHERE `+strings.Join(where, " AND "), args...,
	).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count jobs")
	}
	return results, total, nil
}

func (r *PgJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return job.Job{}, err
	}

	row := toDBJob(j)
	_, err = tx.Exec(ctx, `
		INSERT INTO jobs (
			id, employer_id, title, status,
			is_featured, featured_until, is_freelance, freelance_until,
			deadline, admin_notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
		row.ID, row.EmployerID, row.Title, row.Status,
		row.IsFeatured, row.FeaturedUntil, row.IsFreelance, row.FreelanceUntil,
		row.Deadline, row.AdminNotes,
	)
	if err != nil {
		return job.Job{}, gerrors.Wrap(err, "create job")
	}
	return r.GetByID(ctx, j.ID())
}

func (r *PgJobRepository) Update(ctx context.Context, j job.Job) (job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return job.Job{}, err
	}

	row := toDBJob(j)
	tag, err := tx.Exec(ctx, `
		UPDATE jobs SET
			title = $2, status = $3,
			is_featured = $4, featured_until = $5,
			is_freelance = $6, freelance_until = $7,
			deadline = $8, admin_notes = $9, updated_at = now()
		WHERE id = $1`,
		row.ID, row.Title, row.Status,
		row.IsFeatured, row.FeaturedUntil, row.IsFreelance, row.FreelanceUntil,
		row.Deadline, row.AdminNotes,
	)
	if err != nil {
		return job.Job{}, gerrors.Wrap(err, "update job")
	}
	if tag.RowsAffected() == 0 {
		return job.Job{}, job.ErrNotFound
	}
	return r.GetByID(ctx, j.ID())
}

func (r *PgJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return gerrors.Wrap(err, "delete job")
	}
	if tag.RowsAffected() == 0 {
		return job.ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (job.Job, error) {
	var m models.Job
	if err := row.Scan(
		&m.ID, &m.EmployerID, &m.Title, &m.Status,
		&m.IsFeatured, &m.FeaturedUntil, &m.IsFreelance, &m.FreelanceUntil,
		&m.Deadline, &m.AdminNotes, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return job.Job{}, err
	}
	return toDomainJob(&m)
}

func buildJobFilters(params *job.FindParams) ([]string, []interface{}) {
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
	if params.EmployerID != nil {
		where = append(where, fmt.Sprintf("employer_id = $%d", argPos))
		args = append(args, *params.EmployerID)
		argPos++
	}
	if params.Kind != nil {
		switch *params.Kind {
		case job.KindFeatured:
			where = append(where, "is_featured")
		case job.KindFreelance:
			where = append(where, "is_freelance")
		}
	}
	if params.PromotionExpiredBefore != nil {
		where = append(where, fmt.Sprintf(
			"((is_featured AND featured_until IS NOT NULL AND featured_until <= $%d) OR (is_freelance AND freelance_until IS NOT NULL AND freelance_until <= $%d))",
			argPos, argPos,
		))
		args = append(args, *params.PromotionExpiredBefore)
		argPos++
	}
	return where, args
}
