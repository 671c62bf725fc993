package services

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/credentials"
)

type importFixture struct {
	service     *ImportService
	dispatcher  *NotificationDispatcher
	sender      *recordingSender
	generator   *credentials.Generator
	employees   *employeeRepoMock
	subjects    *subjectRepoMock
	evaluators  *evaluatorRepoMock
	edges       *relationshipRepoMock
	assignments *assignmentRepoMock
	surveys     *surveyRepoMock
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	f := &importFixture{
		sender:    &recordingSender{},
		generator: credentials.NewGenerator("test-secret", 10),
		employees: newEmployeeRepoMock(
			makeEmployee(1, "EMP1", "Ada", "Lovelace", "ada@acme.test", true),
			makeEmployee(2, "EMP2", "Grace", "Hopper", "grace@acme.test", true),
			makeEmployee(3, "EMP3", "Alan", "Turing", "alan@acme.test", true),
		),
		subjects:    newSubjectRepoMock(),
		evaluators:  newEvaluatorRepoMock(),
		edges:       newRelationshipRepoMock(),
		assignments: newAssignmentRepoMock(),
		surveys:     newSurveyRepoMock(makeSurvey(1, "Q3 Review", true)),
	}
	f.dispatcher = NewNotificationDispatcher(f.sender, f.generator, quiet, 8, 5, "http://localhost/dashboard")
	f.service = NewImportService(
		f.employees, f.subjects, f.evaluators, f.edges, f.assignments, f.surveys,
		f.generator, quietBus(), f.dispatcher,
	)
	return f
}

// drain pulls the queued batch (if any) and runs the worker body
// synchronously so tests observe the grouped sends deterministically.
func (f *importFixture) drain(t *testing.T) {
	t.Helper()
	select {
	case batch := <-f.dispatcher.jobs:
		f.dispatcher.process(testContext(), batch)
	default:
	}
}

func TestImportService_EndToEnd(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportAssignments(testContext(), 1, []ImportRow{
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Manager"},
		{SubjectCode: "EMP1", EvaluatorCode: "EMP3", Label: "Peer"},
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Manager"},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 2, result.AssignedCount)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "Row 3:")

	require.Len(t, f.edges.edges, 2)
	require.Equal(t, "Manager", f.edges.edges[0].Label())
	require.Equal(t, "Peer", f.edges.edges[1].Label())
	require.Len(t, f.assignments.rows, 2)

	f.drain(t)
	require.Len(t, f.sender.singles, 2)
	require.Empty(t, f.sender.digests)
	require.ElementsMatch(t,
		[]string{"grace@acme.test", "alan@acme.test"},
		[]string{f.sender.singles[0].EvaluatorEmail, f.sender.singles[1].EvaluatorEmail},
	)
}

func TestImportService_QueryBoundedness(t *testing.T) {
	f := newImportFixture(t)

	// Six rows over three distinct codes must still cost one bulk query per
	// entity kind and zero per-row lookups.
	rows := []ImportRow{
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Manager"},
		{SubjectCode: "EMP1", EvaluatorCode: "EMP3", Label: "Peer"},
		{SubjectCode: "EMP2", EvaluatorCode: "EMP1", Label: "Report"},
		{SubjectCode: "EMP2", EvaluatorCode: "EMP3", Label: "Peer"},
		{SubjectCode: "EMP3", EvaluatorCode: "EMP1", Label: "Peer"},
		{SubjectCode: "EMP3", EvaluatorCode: "EMP2", Label: "Peer"},
	}
	_, err := f.service.ImportAssignments(testContext(), 1, rows)
	require.NoError(t, err)

	require.Equal(t, 1, f.employees.count("GetByCodes"))
	require.Equal(t, 1, f.subjects.count("GetByEmployeeIDs"))
	require.Equal(t, 1, f.evaluators.count("GetByEmployeeIDs"))
	require.Equal(t, 1, f.edges.count("GetAmong"))
	require.Equal(t, 1, f.assignments.count("GetByEdgeIDs"))

	require.Equal(t, 0, f.employees.count("GetByCode"))
	require.Equal(t, 0, f.subjects.count("GetByEmployeeID"))
	require.Equal(t, 0, f.evaluators.count("GetByEmployeeID"))
	require.Equal(t, 0, f.edges.count("GetByPair"))
	require.Equal(t, 0, f.assignments.count("GetByPair"))
}

func TestImportService_CacheAvoidsDoubleCreate(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.ImportAssignments(testContext(), 1, []ImportRow{
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Manager"},
		{SubjectCode: "EMP3", EvaluatorCode: "EMP2", Label: "Peer"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.evaluators.count("Create"))
	require.Equal(t, 2, f.subjects.count("Create"))
}

func TestImportService_SelfMismatchRejected(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportAssignments(testContext(), 1, []ImportRow{
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Self"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.AssignedCount)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "Row 1:")
	require.Empty(t, f.edges.edges)
	require.Empty(t, f.assignments.rows)
}

func TestImportService_UnknownCode(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.service.ImportAssignments(testContext(), 1, []ImportRow{
		{SubjectCode: "EMP1", EvaluatorCode: "GHOST", Label: "Peer"},
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Peer"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.AssignedCount)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "GHOST")
	require.Len(t, f.edges.edges, 1)
}

func TestImportService_RowValidation(t *testing.T) {
	f := newImportFixture(t)

	longLabel := make([]byte, 51)
	for i := range longLabel {
		longLabel[i] = 'x'
	}
	result, err := f.service.ImportAssignments(testContext(), 1, []ImportRow{
		{SubjectCode: "", EvaluatorCode: "EMP2", Label: "Peer"},
		{SubjectCode: "EMP1", EvaluatorCode: "", Label: "Peer"},
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: string(longLabel)},
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.AssignedCount)
	require.Len(t, result.Errors, 3)
}

func TestImportService_ReactivatesInactiveRows(t *testing.T) {
	f := newImportFixture(t)
	f.subjects.records = append(f.subjects.records, makeSubject(1, 1, "h", true))
	f.subjects.nextID = 1
	f.evaluators.records = append(f.evaluators.records, makeEvaluator(1, 2, "h", false))
	f.evaluators.nextID = 1
	f.edges.edges = append(f.edges.edges, makeEdge(1, 1, 1, "Peer", false))
	f.edges.nextID = 1
	f.assignments.rows = append(f.assignments.rows, makeAssignment(1, 1, 1, false))
	f.assignments.nextID = 1

	result, err := f.service.ImportAssignments(testContext(), 1, []ImportRow{
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Manager"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.AssignedCount)
	require.Empty(t, result.Errors)

	require.Len(t, f.evaluators.records, 1)
	require.True(t, f.evaluators.records[0].IsActive())
	require.Len(t, f.edges.edges, 1)
	require.True(t, f.edges.edges[0].IsActive())
	require.Equal(t, "Manager", f.edges.edges[0].Label())
	require.Len(t, f.assignments.rows, 1)
	require.True(t, f.assignments.rows[0].IsActive())
	require.Equal(t, uint(1), f.assignments.rows[0].ID())
}

func TestImportService_PreexistingActiveAssignmentIsNoOp(t *testing.T) {
	f := newImportFixture(t)
	f.subjects.records = append(f.subjects.records, makeSubject(1, 1, "h", true))
	f.subjects.nextID = 1
	f.evaluators.records = append(f.evaluators.records, makeEvaluator(1, 2, "h", true))
	f.evaluators.nextID = 1
	f.edges.edges = append(f.edges.edges, makeEdge(1, 1, 1, "Manager", true))
	f.edges.nextID = 1
	f.assignments.rows = append(f.assignments.rows, makeAssignment(1, 1, 1, true))
	f.assignments.nextID = 1

	result, err := f.service.ImportAssignments(testContext(), 1, []ImportRow{
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Manager"},
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Manager"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.AssignedCount)
	require.Empty(t, result.Errors)

	require.Equal(t, 0, f.assignments.count("Create"))
	require.Equal(t, 0, f.assignments.count("Update"))
	require.Len(t, f.assignments.rows, 1)

	f.drain(t)
	require.Empty(t, f.sender.singles)
	require.Empty(t, f.sender.digests)
}

func TestImportService_MissingSurveyIsFatal(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.ImportAssignments(testContext(), 42, []ImportRow{
		{SubjectCode: "EMP1", EvaluatorCode: "EMP2", Label: "Peer"},
	})
	require.ErrorIs(t, err, survey.ErrNotFound)
}
