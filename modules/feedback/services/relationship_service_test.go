package services

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/credentials"
	"github.com/fullcircle-hr/fullcircle/pkg/eventbus"
)

func quietBus() eventbus.EventBus {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return eventbus.NewEventPublisher(log)
}

type relationshipFixture struct {
	service    *RelationshipService
	employees  *employeeRepoMock
	subjects   *subjectRepoMock
	evaluators *evaluatorRepoMock
	edges      *relationshipRepoMock
}

func newRelationshipFixture(t *testing.T) *relationshipFixture {
	t.Helper()
	f := &relationshipFixture{
		employees: newEmployeeRepoMock(
			makeEmployee(1, "EMP1", "Ada", "Lovelace", "ada@acme.test", true),
			makeEmployee(2, "EMP2", "Grace", "Hopper", "grace@acme.test", true),
			makeEmployee(3, "EMP3", "Alan", "Turing", "alan@acme.test", true),
		),
		subjects:   newSubjectRepoMock(makeSubject(1, 1, "", true)),
		evaluators: newEvaluatorRepoMock(),
		edges:      newRelationshipRepoMock(),
	}
	resolver := NewIdentityResolver(f.employees, f.subjects, f.evaluators, credentials.NewGenerator("test-secret", 10))
	f.service = NewRelationshipService(resolver, f.subjects, f.evaluators, f.edges, quietBus())
	return f
}

func TestRelationshipService_Dedup(t *testing.T) {
	f := newRelationshipFixture(t)

	result, err := f.service.CreateRelationships(testContext(), 1, []string{"EMP2", "EMP2"}, "Peer")
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessfulConnections)
	require.Equal(t, []string{"EMP2"}, result.DuplicateConnections)
	require.Empty(t, result.FailedEmployeeIDs)
	require.Len(t, f.edges.edges, 1)
	require.Len(t, result.Warnings, 1)
}

func TestRelationshipService_UnresolvableCode(t *testing.T) {
	f := newRelationshipFixture(t)

	result, err := f.service.CreateRelationships(testContext(), 1, []string{"GHOST"}, "Peer")
	require.NoError(t, err)
	require.Equal(t, 0, result.SuccessfulConnections)
	require.Equal(t, []string{"GHOST"}, result.FailedEmployeeIDs)
	require.Empty(t, f.edges.edges)
}

func TestRelationshipService_ReactivatesInactiveEdge(t *testing.T) {
	f := newRelationshipFixture(t)
	f.evaluators.records = append(f.evaluators.records, makeEvaluator(5, 2, "", true))
	f.evaluators.nextID = 5
	f.edges.edges = append(f.edges.edges, makeEdge(9, 1, 5, "Peer", false))
	f.edges.nextID = 9

	result, err := f.service.CreateRelationships(testContext(), 1, []string{"EMP2"}, "Manager")
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessfulConnections)
	require.Len(t, f.edges.edges, 1)
	require.Equal(t, uint(9), f.edges.edges[0].ID())
	require.True(t, f.edges.edges[0].IsActive())
	require.Equal(t, "Manager", f.edges.edges[0].Label())
}

func TestRelationshipService_SelfRequiresSameEmployee(t *testing.T) {
	f := newRelationshipFixture(t)

	result, err := f.service.CreateRelationships(testContext(), 1, []string{"EMP2"}, "Self")
	require.NoError(t, err)
	require.Equal(t, 0, result.SuccessfulConnections)
	require.Len(t, result.FailedEmployeeIDs, 1)
	require.Contains(t, result.FailedEmployeeIDs[0], "EMP2")
	require.Empty(t, f.edges.edges)
}

func TestRelationshipService_SelfEdgeForSameEmployee(t *testing.T) {
	f := newRelationshipFixture(t)

	result, err := f.service.CreateRelationships(testContext(), 1, []string{"EMP1"}, "Self")
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessfulConnections)
	require.Len(t, f.edges.edges, 1)
	require.True(t, f.edges.edges[0].IsSelf())
}

func TestRelationshipService_EvaluatorAnchor(t *testing.T) {
	f := newRelationshipFixture(t)
	f.evaluators.records = append(f.evaluators.records, makeEvaluator(5, 2, "", true))
	f.evaluators.nextID = 5

	result, err := f.service.CreateRelationshipsForEvaluator(testContext(), 5, []string{"EMP1", "EMP3", "EMP1"}, "Report")
	require.NoError(t, err)
	require.Equal(t, 2, result.SuccessfulConnections)
	require.Equal(t, []string{"EMP1"}, result.DuplicateConnections)
	require.Empty(t, result.FailedEmployeeIDs)

	require.Len(t, f.edges.edges, 2)
	for _, e := range f.edges.edges {
		require.Equal(t, uint(5), e.EvaluatorID())
		require.Equal(t, "Report", e.Label())
	}
}

func TestRelationshipService_EvaluatorAnchorUnresolvableCode(t *testing.T) {
	f := newRelationshipFixture(t)
	f.evaluators.records = append(f.evaluators.records, makeEvaluator(5, 2, "", true))
	f.evaluators.nextID = 5

	result, err := f.service.CreateRelationshipsForEvaluator(testContext(), 5, []string{"GHOST"}, "Report")
	require.NoError(t, err)
	require.Equal(t, 0, result.SuccessfulConnections)
	require.Equal(t, []string{"GHOST"}, result.FailedEmployeeIDs)
	require.Empty(t, f.edges.edges)
}

func TestRelationshipService_EvaluatorAnchorReactivatesInactiveEdge(t *testing.T) {
	f := newRelationshipFixture(t)
	f.evaluators.records = append(f.evaluators.records, makeEvaluator(5, 2, "", true))
	f.evaluators.nextID = 5
	f.edges.edges = append(f.edges.edges, makeEdge(9, 1, 5, "Peer", false))
	f.edges.nextID = 9

	result, err := f.service.CreateRelationshipsForEvaluator(testContext(), 5, []string{"EMP1"}, "Manager")
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessfulConnections)
	require.Len(t, f.edges.edges, 1)
	require.Equal(t, uint(9), f.edges.edges[0].ID())
	require.True(t, f.edges.edges[0].IsActive())
	require.Equal(t, "Manager", f.edges.edges[0].Label())
}

func TestRelationshipService_EvaluatorAnchorSelfRules(t *testing.T) {
	f := newRelationshipFixture(t)
	f.evaluators.records = append(f.evaluators.records, makeEvaluator(5, 2, "", true))
	f.evaluators.nextID = 5

	result, err := f.service.CreateRelationshipsForEvaluator(testContext(), 5, []string{"EMP1"}, "Self")
	require.NoError(t, err)
	require.Equal(t, 0, result.SuccessfulConnections)
	require.Len(t, result.FailedEmployeeIDs, 1)
	require.Contains(t, result.FailedEmployeeIDs[0], "EMP1")

	result, err = f.service.CreateRelationshipsForEvaluator(testContext(), 5, []string{"EMP2"}, "Self")
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessfulConnections)
	require.Len(t, f.edges.edges, 1)
	require.True(t, f.edges.edges[0].IsSelf())
}

func TestRelationshipService_EvaluatorAnchorMissingEvaluator(t *testing.T) {
	f := newRelationshipFixture(t)

	_, err := f.service.CreateRelationshipsForEvaluator(testContext(), 42, []string{"EMP1"}, "Peer")
	require.ErrorIs(t, err, evaluator.ErrNotFound)
}

func TestRelationshipService_SyncEvaluatorsRelabels(t *testing.T) {
	f := newRelationshipFixture(t)
	f.evaluators.records = append(f.evaluators.records, makeEvaluator(5, 2, "", true))
	f.evaluators.nextID = 5
	f.edges.edges = append(f.edges.edges, makeEdge(9, 1, 5, "Peer", true))
	f.edges.nextID = 9

	result, err := f.service.SyncEvaluators(testContext(), 1, []EvaluatorLink{
		{Code: "EMP2", Label: "Manager"},
		{Code: "EMP3", Label: "Peer"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.SuccessfulConnections)
	require.Len(t, f.edges.edges, 2)
	require.Equal(t, "Manager", f.edges.edges[0].Label())
}

func TestRelationshipService_InvalidLabelRejected(t *testing.T) {
	f := newRelationshipFixture(t)

	_, err := f.service.CreateRelationships(testContext(), 1, []string{"EMP2"}, "")
	require.Error(t, err)
}
