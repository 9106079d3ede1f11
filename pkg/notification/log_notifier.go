package notification

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogNotifier records notifications in the application log instead of
// delivering them. It is the default backend for deployments without a
// delivery bot attached.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithField("component", "notification")}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.log.WithFields(logrus.Fields{
		"user_id": msg.UserID,
		"job_id":  msg.JobID,
		"title":   msg.Title,
	}).Info(msg.Body)
	return nil
}
