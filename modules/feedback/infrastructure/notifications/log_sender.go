package notifications

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender records notifications instead of delivering them. Default sender
// in development and tests.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendAssigned(ctx context.Context, n SingleNotification) error {
	s.log.WithFields(logrus.Fields{
		"evaluator": n.EvaluatorEmail,
		"subject":   n.SubjectName,
		"survey":    n.SurveyTitle,
	}).Info("notification: survey assigned")
	return nil
}

func (s *LogSender) SendAssignedDigest(ctx context.Context, n DigestNotification) error {
	s.log.WithFields(logrus.Fields{
		"evaluator": n.EvaluatorEmail,
		"count":     n.Count,
		"survey":    n.SurveyTitle,
	}).Info("notification: surveys assigned digest")
	return nil
}
