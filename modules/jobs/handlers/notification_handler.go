package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
	"github.com/hulujobs/hulujobs-sdk/pkg/application"
	"github.com/hulujobs/hulujobs-sdk/pkg/notification"
)

const notifyTimeout = 5 * time.Second

// NotificationHandler fans employer-facing rejection notices out to the
// notification port. Approvals are deliberately silent: the employer sees
// the promotion in the listing itself. Dispatch runs after the triggering
// mutation committed and never fails it; delivery errors are logged only.
type NotificationHandler struct {
	port   notification.Port
	logger *logrus.Logger
}

func RegisterNotificationHandlers(app application.Application, port notification.Port) *NotificationHandler {
	handler := &NotificationHandler{
		port:   port,
		logger: app.Logger(),
	}
	app.EventPublisher().Subscribe(handler.onStatusChanged)
	app.EventPublisher().Subscribe(handler.onRequestProcessed)
	app.EventPublisher().Subscribe(handler.onReviewCompleted)
	return handler
}

func (h *NotificationHandler) onStatusChanged(e *job.StatusChangedEvent) {
	if e == nil || e.To != job.StatusRejected {
		return
	}
	body := fmt.Sprintf("Your job posting %q was rejected.", e.Job.Title())
	if e.Notes != "" {
		body += " Reason: " + e.Notes
	}
	h.notify(notification.Message{
		UserID: e.Job.EmployerID(),
		Title:  "Job posting rejected",
		Body:   body,
		JobID:  e.Job.ID(),
	})
}

func (h *NotificationHandler) onRequestProcessed(e *promotionrequest.ProcessedEvent) {
	if e == nil || e.Decision != promotionrequest.DecisionRejected {
		return
	}
	body := fmt.Sprintf("Your %s promotion request for %q was declined.", e.Request.Kind(), e.Job.Title())
	if e.Reason != "" {
		body += " Reason: " + e.Reason
	}
	h.notify(notification.Message{
		UserID: e.Request.EmployerID(),
		Title:  "Promotion request declined",
		Body:   body,
		JobID:  e.Job.ID(),
	})
}

func (h *NotificationHandler) onReviewCompleted(e *job.ReviewCompletedEvent) {
	if e == nil || e.Approved {
		return
	}
	body := fmt.Sprintf("Your %s job posting %q was declined during review.", e.Kind, e.Job.Title())
	if e.Notes != "" {
		body += " Reason: " + e.Notes
	}
	h.notify(notification.Message{
		UserID: e.Job.EmployerID(),
		Title:  "Job review declined",
		Body:   body,
		JobID:  e.Job.ID(),
	})
}

func (h *NotificationHandler) notify(msg notification.Message) {
	msg.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := h.port.Notify(ctx, msg); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": msg.UserID,
			"job_id":  msg.JobID,
		}).Error("notification dispatch failed")
	}
}
