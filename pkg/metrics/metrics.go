package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ApprovalDecisions counts processed promotion requests by decision.
	ApprovalDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_approvals_total",
		Help: "Promotion request decisions by outcome.",
	}, []string{"decision"})

	// BulkOutcomes counts per-item results of bulk job operations.
	BulkOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_bulk_outcomes_total",
		Help: "Per-item outcomes of bulk job operations.",
	}, []string{"outcome"})

	// PromotionsReconciled counts expired promotions persisted by the
	// reconciliation pass.
	PromotionsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobs_promotions_reconciled_total",
		Help: "Expired promotions cleared by reconciliation.",
	})
)
