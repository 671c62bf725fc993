package services

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/credentials"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/notifications"
)

type recordingSender struct {
	singles []notifications.SingleNotification
	digests []notifications.DigestNotification
	fail    error
}

func (s *recordingSender) SendAssigned(ctx context.Context, n notifications.SingleNotification) error {
	if s.fail != nil {
		return s.fail
	}
	s.singles = append(s.singles, n)
	return nil
}

func (s *recordingSender) SendAssignedDigest(ctx context.Context, n notifications.DigestNotification) error {
	if s.fail != nil {
		return s.fail
	}
	s.digests = append(s.digests, n)
	return nil
}

func newDispatcherFixture(queueSize, digestMax int) (*NotificationDispatcher, *recordingSender, *credentials.Generator) {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	sender := &recordingSender{}
	gen := credentials.NewGenerator("test-secret", 10)
	d := NewNotificationDispatcher(sender, gen, quiet, queueSize, digestMax, "http://localhost/dashboard")
	return d, sender, gen
}

func outcomeFor(gen *credentials.Generator, email, subjectName string) AssignmentOutcome {
	hash, _ := gen.Hash(gen.Generate(email))
	return AssignmentOutcome{
		EvaluatorEmail: email,
		EvaluatorName:  "Evaluator",
		CredentialHash: hash,
		SubjectName:    subjectName,
		SurveyTitle:    "Q3 Review",
	}
}

func TestDispatcher_SingleOutcomeSendsSingle(t *testing.T) {
	d, sender, gen := newDispatcherFixture(4, 5)

	d.process(context.Background(), []AssignmentOutcome{
		outcomeFor(gen, "grace@acme.test", "Ada Lovelace"),
	})

	require.Len(t, sender.singles, 1)
	require.Empty(t, sender.digests)
	require.Equal(t, "Ada Lovelace", sender.singles[0].SubjectName)
	require.Equal(t, gen.Generate("grace@acme.test"), sender.singles[0].CredentialDisplay)
}

func TestDispatcher_MultipleOutcomesSendDigest(t *testing.T) {
	d, sender, gen := newDispatcherFixture(4, 5)

	d.process(context.Background(), []AssignmentOutcome{
		outcomeFor(gen, "grace@acme.test", "Ada Lovelace"),
		outcomeFor(gen, "grace@acme.test", "Alan Turing"),
	})

	require.Empty(t, sender.singles)
	require.Len(t, sender.digests, 1)
	require.Equal(t, 2, sender.digests[0].Count)
	require.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, sender.digests[0].SubjectNames)
	require.Equal(t, 0, sender.digests[0].MoreCount)
}

func TestDispatcher_DigestCapsItemList(t *testing.T) {
	d, sender, gen := newDispatcherFixture(4, 2)

	d.process(context.Background(), []AssignmentOutcome{
		outcomeFor(gen, "grace@acme.test", "One"),
		outcomeFor(gen, "grace@acme.test", "Two"),
		outcomeFor(gen, "grace@acme.test", "Three"),
		outcomeFor(gen, "grace@acme.test", "Four"),
	})

	require.Len(t, sender.digests, 1)
	digest := sender.digests[0]
	require.Equal(t, 4, digest.Count)
	require.Equal(t, 2, digest.MoreCount)
	require.Equal(t, []string{"One", "Two", "+2 more"}, digest.SubjectNames)
}

func TestDispatcher_RedactsChangedCredential(t *testing.T) {
	d, sender, gen := newDispatcherFixture(4, 5)

	changed := outcomeFor(gen, "grace@acme.test", "Ada Lovelace")
	changed.CredentialHash = "$2a$10$somethinguserchosenxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
	d.process(context.Background(), []AssignmentOutcome{changed})

	require.Len(t, sender.singles, 1)
	require.Equal(t, notifications.RedactedCredential, sender.singles[0].CredentialDisplay)
}

func TestDispatcher_GroupsByEvaluator(t *testing.T) {
	d, sender, gen := newDispatcherFixture(4, 5)

	d.process(context.Background(), []AssignmentOutcome{
		outcomeFor(gen, "grace@acme.test", "Ada Lovelace"),
		outcomeFor(gen, "alan@acme.test", "Ada Lovelace"),
		outcomeFor(gen, "grace@acme.test", "Alan Turing"),
	})

	require.Len(t, sender.singles, 1)
	require.Equal(t, "alan@acme.test", sender.singles[0].EvaluatorEmail)
	require.Len(t, sender.digests, 1)
	require.Equal(t, "grace@acme.test", sender.digests[0].EvaluatorEmail)
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	d, sender, gen := newDispatcherFixture(4, 5)
	sender.fail = io.ErrClosedPipe

	require.NotPanics(t, func() {
		d.process(context.Background(), []AssignmentOutcome{
			outcomeFor(gen, "grace@acme.test", "Ada Lovelace"),
		})
	})
}

func TestDispatcher_FullQueueDropsBatch(t *testing.T) {
	d, _, gen := newDispatcherFixture(1, 5)

	first := []AssignmentOutcome{outcomeFor(gen, "a@acme.test", "S")}
	second := []AssignmentOutcome{outcomeFor(gen, "b@acme.test", "S")}

	require.NotPanics(t, func() {
		d.Enqueue(first)
		d.Enqueue(second)
	})
	require.Len(t, d.jobs, 1)
}

func TestDispatcher_EmptyBatchIsIgnored(t *testing.T) {
	d, _, _ := newDispatcherFixture(1, 5)

	d.Enqueue(nil)
	require.Empty(t, d.jobs)
}
