package notifications

import "context"

// RedactedCredential is shown in place of a credential the evaluator has
// since replaced with their own password.
const RedactedCredential = "********"

type SingleNotification struct {
	EvaluatorEmail    string
	EvaluatorName     string
	SubjectName       string
	SurveyTitle       string
	Link              string
	CredentialDisplay string
}

type DigestNotification struct {
	EvaluatorEmail    string
	EvaluatorName     string
	Count             int
	SurveyTitle       string
	SubjectNames      []string
	MoreCount         int
	DashboardLink     string
	CredentialDisplay string
}

// Sender is the boundary to the delivery mechanism. Template rendering and
// transport live behind it; this package only decides what to say.
type Sender interface {
	SendAssigned(ctx context.Context, n SingleNotification) error
	SendAssignedDigest(ctx context.Context, n DigestNotification) error
}
