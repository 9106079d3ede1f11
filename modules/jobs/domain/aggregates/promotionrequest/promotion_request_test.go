package promotionrequest_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
)

func newPendingRequest() promotionrequest.PromotionRequest {
	return promotionrequest.New(
		uuid.New(), uuid.New(), job.KindFeatured,
		decimal.NewFromInt(49), "usd", " tx-123 ", nil,
	)
}

func TestNew_NormalizesEvidence(t *testing.T) {
	t.Parallel()
	r := newPendingRequest()

	assert.NotEqual(t, uuid.Nil, r.ID())
	assert.Equal(t, promotionrequest.StatusPending, r.Status())
	assert.True(t, r.IsPending())
	assert.Equal(t, "USD", r.Currency())
	assert.Equal(t, "tx-123", r.TransactionRef())
	assert.Nil(t, r.ProcessedAt())
	assert.Nil(t, r.ProcessedBy())
}

func TestFromEvidence(t *testing.T) {
	t.Parallel()

	r, err := promotionrequest.FromEvidence(uuid.New(), uuid.New(), job.KindFreelance, "25.50", "eur", "tx-42", nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(25.50).Equal(r.Amount()))
	assert.Equal(t, "EUR", r.Currency())
	assert.True(t, r.IsPending())

	_, err = promotionrequest.FromEvidence(uuid.New(), uuid.New(), job.KindFeatured, "25.50", "USD", "  ", nil)
	require.Error(t, err)

	_, err = promotionrequest.FromEvidence(uuid.New(), uuid.New(), job.KindFeatured, "not-a-number", "USD", "tx-1", nil)
	require.ErrorIs(t, err, promotionrequest.ErrInvalidAmount)

	_, err = promotionrequest.FromEvidence(uuid.New(), uuid.New(), job.KindFeatured, "-5", "USD", "tx-1", nil)
	require.ErrorIs(t, err, promotionrequest.ErrInvalidAmount)
}

func TestApprove(t *testing.T) {
	t.Parallel()
	now := time.Now()
	reviewer := uuid.New()
	r := newPendingRequest()

	approved, err := r.Approve(reviewer, now)
	require.NoError(t, err)
	assert.Equal(t, promotionrequest.StatusApproved, approved.Status())
	require.NotNil(t, approved.ProcessedAt())
	assert.True(t, approved.ProcessedAt().Equal(now))
	require.NotNil(t, approved.ProcessedBy())
	assert.Equal(t, reviewer, *approved.ProcessedBy())
}

func TestApprove_TerminalStateIsImmutable(t *testing.T) {
	t.Parallel()
	now := time.Now()
	reviewer := uuid.New()
	r := newPendingRequest()

	approved, err := r.Approve(reviewer, now)
	require.NoError(t, err)

	_, err = approved.Approve(uuid.New(), now.Add(time.Hour))
	assert.ErrorIs(t, err, promotionrequest.ErrAlreadyProcessed)

	got, err := approved.Reject(uuid.New(), "changed my mind", now.Add(time.Hour))
	assert.ErrorIs(t, err, promotionrequest.ErrAlreadyProcessed)
	assert.Equal(t, promotionrequest.StatusApproved, got.Status())
	require.NotNil(t, got.ProcessedBy())
	assert.Equal(t, reviewer, *got.ProcessedBy())
}

func TestReject_RecordsReason(t *testing.T) {
	t.Parallel()
	now := time.Now()
	r := newPendingRequest()

	rejected, err := r.Reject(uuid.New(), "  screenshot does not match amount  ", now)
	require.NoError(t, err)
	assert.Equal(t, promotionrequest.StatusRejected, rejected.Status())
	require.NotNil(t, rejected.AdminNotes())
	assert.Equal(t, "screenshot does not match amount", *rejected.AdminNotes())
}

func TestReject_EmptyReasonLeavesNotesNil(t *testing.T) {
	t.Parallel()
	r := newPendingRequest()

	rejected, err := r.Reject(uuid.New(), "   ", time.Now())
	require.NoError(t, err)
	assert.Nil(t, rejected.AdminNotes())
}
