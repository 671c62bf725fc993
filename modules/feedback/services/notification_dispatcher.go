package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/credentials"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/notifications"
)

// AssignmentOutcome is one successful assignment recorded during an assign or
// import call, carried to the dispatcher after commit.
type AssignmentOutcome struct {
	EvaluatorEmail string
	EvaluatorName  string
	CredentialHash string
	SubjectName    string
	SurveyTitle    string
}

// NotificationDispatcher fans assignment outcomes out to evaluators. Batches
// are queued on a channel and handled by a single worker goroutine; delivery
// runs after the originating transaction has committed and its failures are
// logged, never returned. One outcome per evaluator sends a single
// notification, several send a digest.
type NotificationDispatcher struct {
	jobs           chan []AssignmentOutcome
	sender         notifications.Sender
	generator      *credentials.Generator
	log            *logrus.Logger
	dashboardURL   string
	digestMaxItems int
}

func NewNotificationDispatcher(
	sender notifications.Sender,
	generator *credentials.Generator,
	log *logrus.Logger,
	queueSize int,
	digestMaxItems int,
	dashboardURL string,
) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if digestMaxItems <= 0 {
		digestMaxItems = 10
	}
	return &NotificationDispatcher{
		jobs:           make(chan []AssignmentOutcome, queueSize),
		sender:         sender,
		generator:      generator,
		log:            log,
		dashboardURL:   dashboardURL,
		digestMaxItems: digestMaxItems,
	}
}

// Start runs the worker until ctx is done. Call once at boot.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case batch := <-d.jobs:
				d.process(ctx, batch)
			}
		}
	}()
}

// Enqueue hands a batch of outcomes to the worker without blocking the
// caller. When the queue is full the batch is dropped and logged; there is no
// retry.
func (d *NotificationDispatcher) Enqueue(outcomes []AssignmentOutcome) {
	if len(outcomes) == 0 {
		return
	}
	select {
	case d.jobs <- outcomes:
	default:
		d.log.WithField("outcomes", len(outcomes)).
			Warn("notification queue full, dropping batch")
	}
}

func (d *NotificationDispatcher) process(ctx context.Context, batch []AssignmentOutcome) {
	byEvaluator := make(map[string][]AssignmentOutcome)
	order := make([]string, 0)
	for _, o := range batch {
		if _, seen := byEvaluator[o.EvaluatorEmail]; !seen {
			order = append(order, o.EvaluatorEmail)
		}
		byEvaluator[o.EvaluatorEmail] = append(byEvaluator[o.EvaluatorEmail], o)
	}

	for _, email := range order {
		outcomes := byEvaluator[email]
		if err := d.notify(ctx, email, outcomes); err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"evaluator": email,
				"outcomes":  len(outcomes),
			}).Error("failed to send assignment notification")
		}
	}
}

func (d *NotificationDispatcher) notify(ctx context.Context, email string, outcomes []AssignmentOutcome) error {
	first := outcomes[0]
	display := d.credentialDisplay(email, first.CredentialHash)

	if len(outcomes) == 1 {
		return d.sender.SendAssigned(ctx, notifications.SingleNotification{
			EvaluatorEmail:    email,
			EvaluatorName:     first.EvaluatorName,
			SubjectName:       first.SubjectName,
			SurveyTitle:       first.SurveyTitle,
			Link:              d.dashboardURL,
			CredentialDisplay: display,
		})
	}

	names := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		names = append(names, o.SubjectName)
	}
	more := 0
	if len(names) > d.digestMaxItems {
		more = len(names) - d.digestMaxItems
		names = names[:d.digestMaxItems]
	}
	if more > 0 {
		names = append(names, fmt.Sprintf("+%d more", more))
	}

	return d.sender.SendAssignedDigest(ctx, notifications.DigestNotification{
		EvaluatorEmail:    email,
		EvaluatorName:     first.EvaluatorName,
		Count:             len(outcomes),
		SurveyTitle:       first.SurveyTitle,
		SubjectNames:      names,
		MoreCount:         more,
		DashboardLink:     d.dashboardURL,
		CredentialDisplay: display,
	})
}

// credentialDisplay shows the generated secret only while the stored hash
// still matches it; a changed password yields the redacted placeholder.
func (d *NotificationDispatcher) credentialDisplay(email, hash string) string {
	if hash != "" && d.generator.IsGeneratedSecret(email, hash) {
		return d.generator.Generate(email)
	}
	return notifications.RedactedCredential
}
