package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/assignment"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
)

type assignmentFixture struct {
	service     *AssignmentService
	surveys     *surveyRepoMock
	edges       *relationshipRepoMock
	assignments *assignmentRepoMock
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()
	employees := newEmployeeRepoMock(
		makeEmployee(1, "EMP1", "Ada", "Lovelace", "ada@acme.test", true),
		makeEmployee(2, "EMP2", "Grace", "Hopper", "grace@acme.test", true),
	)
	subjects := newSubjectRepoMock(makeSubject(1, 1, "", true))
	evaluators := newEvaluatorRepoMock(makeEvaluator(1, 2, "", true))
	f := &assignmentFixture{
		surveys:     newSurveyRepoMock(makeSurvey(1, "Q3 Review", true)),
		edges:       newRelationshipRepoMock(makeEdge(1, 1, 1, "Manager", true)),
		assignments: newAssignmentRepoMock(),
	}
	f.service = NewAssignmentService(
		f.surveys, f.edges, f.assignments, subjects, evaluators, employees, quietBus(), nil,
	)
	return f
}

func activeRows(m *assignmentRepoMock) []assignment.Assignment {
	var out []assignment.Assignment
	for _, a := range m.rows {
		if a.IsActive() {
			out = append(out, a)
		}
	}
	return out
}

func TestAssignmentService_AssignIsIdempotent(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := testContext()

	first, err := f.service.Assign(ctx, 1, []uint{1})
	require.NoError(t, err)
	require.True(t, first.Success)
	require.Equal(t, 1, first.AssignedCount)
	require.Empty(t, first.Errors)

	second, err := f.service.Assign(ctx, 1, []uint{1})
	require.NoError(t, err)
	require.True(t, second.Success)
	require.Equal(t, 0, second.AssignedCount)
	require.Len(t, second.Errors, 1)

	require.Len(t, f.assignments.rows, 1)
	require.Len(t, activeRows(f.assignments), 1)
}

func TestAssignmentService_ReassignReusesRow(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := testContext()

	_, err := f.service.Assign(ctx, 1, []uint{1})
	require.NoError(t, err)
	originalID := f.assignments.rows[0].ID()

	result, err := f.service.Unassign(ctx, 1, []uint{1})
	require.NoError(t, err)
	require.Equal(t, 1, result.UnassignedCount)
	require.Empty(t, activeRows(f.assignments))

	result, err = f.service.Assign(ctx, 1, []uint{1})
	require.NoError(t, err)
	require.Equal(t, 1, result.AssignedCount)
	require.Len(t, f.assignments.rows, 1)
	require.Equal(t, originalID, f.assignments.rows[0].ID())
	require.True(t, f.assignments.rows[0].IsActive())
}

func TestAssignmentService_MissingSurveyIsFatal(t *testing.T) {
	f := newAssignmentFixture(t)

	_, err := f.service.Assign(testContext(), 99, []uint{1})
	require.ErrorIs(t, err, survey.ErrNotFound)
	require.Empty(t, f.assignments.rows)
}

func TestAssignmentService_InactiveSurveyIsFatal(t *testing.T) {
	f := newAssignmentFixture(t)
	f.surveys.surveys = append(f.surveys.surveys, makeSurvey(2, "Archived", false))

	_, err := f.service.Assign(testContext(), 2, []uint{1})
	require.ErrorIs(t, err, survey.ErrNotFound)
}

func TestAssignmentService_InactiveEdgeIsPerItemError(t *testing.T) {
	f := newAssignmentFixture(t)
	f.edges.edges = append(f.edges.edges, makeEdge(2, 1, 1, "Peer", false))

	result, err := f.service.Assign(testContext(), 1, []uint{1, 2, 3})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1, result.AssignedCount)
	require.Len(t, result.Errors, 2)
}

func TestAssignmentService_UnassignMissingRowIsPerItemError(t *testing.T) {
	f := newAssignmentFixture(t)

	result, err := f.service.Unassign(testContext(), 1, []uint{1})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 0, result.UnassignedCount)
	require.Len(t, result.Errors, 1)
}
