package promotionrequest

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/pkg/serrors"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// PromotionRequest is a payment-backed ask to promote a job. The payment
// evidence is opaque to the workflow: only its presence matters here, the
// gateway has already been settled by the time a request exists.
type PromotionRequest struct {
	id             uuid.UUID
	jobID          uuid.UUID
	employerID     uuid.UUID
	kind           job.PromotionKind
	amount         decimal.Decimal
	currency       string
	transactionRef string
	screenshotURL  *string
	status         Status
	submittedAt    time.Time
	processedAt    *time.Time
	processedBy    *uuid.UUID
	adminNotes     *string
}

// New creates a pending request from submitted payment evidence.
func New(
	jobID uuid.UUID,
	employerID uuid.UUID,
	kind job.PromotionKind,
	amount decimal.Decimal,
	currency string,
	transactionRef string,
	screenshotURL *string,
) PromotionRequest {
	return PromotionRequest{
		id:             uuid.New(),
		jobID:          jobID,
		employerID:     employerID,
		kind:           kind,
		amount:         amount,
		currency:       strings.ToUpper(strings.TrimSpace(currency)),
		transactionRef: strings.TrimSpace(transactionRef),
		screenshotURL:  screenshotURL,
		status:         StatusPending,
		submittedAt:    time.Now(),
	}
}

// FromEvidence validates submitted payment evidence and builds a pending
// request. Evidence is opaque beyond presence: a parsable non-negative amount
// and a transaction reference are all that intake checks.
func FromEvidence(
	jobID uuid.UUID,
	employerID uuid.UUID,
	kind job.PromotionKind,
	amount string,
	currency string,
	transactionRef string,
	screenshotURL *string,
) (PromotionRequest, error) {
	if jobID == uuid.Nil {
		return PromotionRequest{}, serrors.NewFieldRequiredError("job_id", "PromotionRequests.Errors.JobIDRequired")
	}
	if employerID == uuid.Nil {
		return PromotionRequest{}, serrors.NewFieldRequiredError("employer_id", "PromotionRequests.Errors.EmployerIDRequired")
	}
	if strings.TrimSpace(transactionRef) == "" {
		return PromotionRequest{}, serrors.NewFieldRequiredError("transaction_ref", "PromotionRequests.Errors.TransactionRefRequired")
	}
	if strings.TrimSpace(currency) == "" {
		return PromotionRequest{}, serrors.NewFieldRequiredError("currency", "PromotionRequests.Errors.CurrencyRequired")
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || parsed.IsNegative() {
		return PromotionRequest{}, ErrInvalidAmount
	}
	return New(jobID, employerID, kind, parsed, currency, transactionRef, screenshotURL), nil
}

func Hydrate(
	id uuid.UUID,
	jobID uuid.UUID,
	employerID uuid.UUID,
	kind job.PromotionKind,
	amount decimal.Decimal,
	currency string,
	transactionRef string,
	screenshotURL *string,
	status Status,
	submittedAt time.Time,
	processedAt *time.Time,
	processedBy *uuid.UUID,
	adminNotes *string,
) PromotionRequest {
	return PromotionRequest{
		id:             id,
		jobID:          jobID,
		employerID:     employerID,
		kind:           kind,
		amount:         amount,
		currency:       currency,
		transactionRef: transactionRef,
		screenshotURL:  screenshotURL,
		status:         status,
		submittedAt:    submittedAt,
		processedAt:    processedAt,
		processedBy:    processedBy,
		adminNotes:     adminNotes,
	}
}

func (r PromotionRequest) ID() uuid.UUID           { return r.id }
func (r PromotionRequest) JobID() uuid.UUID        { return r.jobID }
func (r PromotionRequest) EmployerID() uuid.UUID   { return r.employerID }
func (r PromotionRequest) Kind() job.PromotionKind { return r.kind }
func (r PromotionRequest) Amount() decimal.Decimal { return r.amount }
func (r PromotionRequest) Currency() string        { return r.currency }
func (r PromotionRequest) TransactionRef() string  { return r.transactionRef }
func (r PromotionRequest) ScreenshotURL() *string  { return r.screenshotURL }
func (r PromotionRequest) Status() Status          { return r.status }
func (r PromotionRequest) SubmittedAt() time.Time  { return r.submittedAt }
func (r PromotionRequest) ProcessedAt() *time.Time { return r.processedAt }
func (r PromotionRequest) ProcessedBy() *uuid.UUID { return r.processedBy }
func (r PromotionRequest) AdminNotes() *string     { return r.adminNotes }
func (r PromotionRequest) IsZero() bool            { return r.id == uuid.Nil }

func (r PromotionRequest) IsPending() bool {
	return r.status == StatusPending
}

// Approve moves the request into its terminal approved state. Terminal
// states are immutable: processing an already-processed request fails with
// ErrAlreadyProcessed and mutates nothing.
func (r PromotionRequest) Approve(processedBy uuid.UUID, now time.Time) (PromotionRequest, error) {
	if r.status != StatusPending {
		return r, ErrAlreadyProcessed
	}
	r.status = StatusApproved
	r.processedAt = &now
	r.processedBy = &processedBy
	return r, nil
}

// Reject moves the request into its terminal rejected state, recording the
// reason in the admin notes.
func (r PromotionRequest) Reject(processedBy uuid.UUID, reason string, now time.Time) (PromotionRequest, error) {
	if r.status != StatusPending {
		return r, ErrAlreadyProcessed
	}
	r.status = StatusRejected
	r.processedAt = &now
	r.processedBy = &processedBy
	reason = strings.TrimSpace(reason)
	if reason != "" {
		r.adminNotes = &reason
	}
	return r, nil
}
