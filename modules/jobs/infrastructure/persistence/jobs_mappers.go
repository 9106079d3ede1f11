package persistence

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/infrastructure/persistence/models"
)

func toDomainJob(row *models.Job) (job.Job, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return job.Job{}, errors.Wrap(err, "invalid job id")
	}
	employerID, err := uuid.Parse(row.EmployerID)
	if err != nil {
		return job.Job{}, errors.Wrap(err, "invalid employer id")
	}
	status, err := job.ParseStatus(row.Status)
	if err != nil {
		return job.Job{}, err
	}

	var featuredUntil *time.Time
	if row.FeaturedUntil.Valid {
		t := row.FeaturedUntil.Time
		featuredUntil = &t
	}
	var freelanceUntil *time.Time
	if row.FreelanceUntil.Valid {
		t := row.FreelanceUntil.Time
		freelanceUntil = &t
	}
	var adminNotes *string
	if row.AdminNotes.Valid {
		s := row.AdminNotes.String
		adminNotes = &s
	}

	return job.Hydrate(
		id, employerID, row.Title, status,
		row.IsFeatured, featuredUntil,
		row.IsFreelance, freelanceUntil,
		row.Deadline, adminNotes,
		row.CreatedAt, row.UpdatedAt,
	), nil
}

func toDBJob(j job.Job) *models.Job {
	row := &models.Job{
		ID:          j.ID().String(),
		EmployerID:  j.EmployerID().String(),
		Title:       j.Title(),
		Status:      string(j.Status()),
		IsFeatured:  j.IsFeatured(),
		IsFreelance: j.IsFreelance(),
		Deadline:    j.Deadline(),
		CreatedAt:   j.CreatedAt(),
		UpdatedAt:   j.UpdatedAt(),
	}
	if until := j.FeaturedUntil(); until != nil {
		row.FeaturedUntil.Valid = true
		row.FeaturedUntil.Time = *until
	}
	if until := j.FreelanceUntil(); until != nil {
		row.FreelanceUntil.Valid = true
		row.FreelanceUntil.Time = *until
	}
	if notes := j.AdminNotes(); notes != nil {
		row.AdminNotes.Valid = true
		row.AdminNotes.String = *notes
	}
	return row
}

func toDomainRequest(row *models.PromotionRequest) (promotionrequest.PromotionRequest, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return promotionrequest.PromotionRequest{}, errors.Wrap(err, "invalid request id")
	}
	jobID, err := uuid.Parse(row.JobID)
	if err != nil {
		return promotionrequest.PromotionRequest{}, errors.Wrap(err, "invalid job id")
	}
	employerID, err := uuid.Parse(row.EmployerID)
	if err != nil {
		return promotionrequest.PromotionRequest{}, errors.Wrap(err, "invalid employer id")
	}
	kind, err := job.ParseKind(row.Kind)
	if err != nil {
		return promotionrequest.PromotionRequest{}, err
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return promotionrequest.PromotionRequest{}, errors.Wrap(err, "invalid amount")
	}

	var screenshotURL *string
	if row.ScreenshotURL.Valid {
		s := row.ScreenshotURL.String
		screenshotURL = &s
	}
	var processedAt *time.Time
	if row.ProcessedAt.Valid {
		t := row.ProcessedAt.Time
		processedAt = &t
	}
	var processedBy *uuid.UUID
	if row.ProcessedBy.Valid {
		u, err := uuid.Parse(row.ProcessedBy.String)
		if err != nil {
			return promotionrequest.PromotionRequest{}, errors.Wrap(err, "invalid processed_by")
		}
		processedBy = &u
	}
	var adminNotes *string
	if row.AdminNotes.Valid {
		s := row.AdminNotes.String
		adminNotes = &s
	}

	return promotionrequest.Hydrate(
		id, jobID, employerID, kind,
		amount, row.Currency, row.TransactionRef, screenshotURL,
		promotionrequest.Status(row.Status),
		row.SubmittedAt, processedAt, processedBy, adminNotes,
	), nil
}

func toDBRequest(r promotionrequest.PromotionRequest) *models.PromotionRequest {
	row := &models.PromotionRequest{
		ID:             r.ID().String(),
		JobID:          r.JobID().String(),
		EmployerID:     r.EmployerID().String(),
		Kind:           string(r.Kind()),
		Amount:         r.Amount().String(),
		Currency:       r.Currency(),
		TransactionRef: r.TransactionRef(),
		Status:         string(r.Status()),
		SubmittedAt:    r.SubmittedAt(),
	}
	if url := r.ScreenshotURL(); url != nil {
		row.ScreenshotURL.Valid = true
		row.ScreenshotURL.String = *url
	}
	if at := r.ProcessedAt(); at != nil {
		row.ProcessedAt.Valid = true
		row.ProcessedAt.Time = *at
	}
	if by := r.ProcessedBy(); by != nil {
		row.ProcessedBy.Valid = true
		row.ProcessedBy.String = by.String()
	}
	if notes := r.AdminNotes(); notes != nil {
		row.AdminNotes.Valid = true
		row.AdminNotes.String = *notes
	}
	return row
}
