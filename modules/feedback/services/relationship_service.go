package services

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/relationship"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
	"github.com/fullcircle-hr/fullcircle/pkg/eventbus"
)

// EvaluatorLink pairs an evaluator code with the label the caller wants on
// the edge. Used by SyncEvaluators to reconcile an edited evaluator list.
type EvaluatorLink struct {
	Code  string
	Label string
}

// RelationshipService builds and maintains the subject-evaluator graph from
// either anchor side. Individual counterpart failures accumulate in the
// result; only system failures abort the call.
type RelationshipService struct {
	resolver   *IdentityResolver
	subjects   subject.Repository
	evaluators evaluator.Repository
	edges      relationship.Repository
	publisher  eventbus.EventBus
}

func NewRelationshipService(
	resolver *IdentityResolver,
	subjects subject.Repository,
	evaluators evaluator.Repository,
	edges relationship.Repository,
	publisher eventbus.EventBus,
) *RelationshipService {
	return &RelationshipService{
		resolver:   resolver,
		subjects:   subjects,
		evaluators: evaluators,
		edges:      edges,
		publisher:  publisher,
	}
}

// CreateRelationships connects a subject to each evaluator code with the
// given label. Existing active edges are reported as duplicates, inactive
// ones reactivated, unresolvable codes collected.
func (s *RelationshipService) CreateRelationships(
	ctx context.Context,
	subjectID uint,
	evaluatorCodes []string,
	label string,
) (*relationship.Result, error) {
	if !relationship.ValidLabel(label) {
		return nil, errors.Errorf("invalid relationship label %q", label)
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*relationship.Result, error) {
		anchor, err := s.subjects.GetByID(txCtx, subjectID)
		if err != nil {
			return nil, err
		}
		if !anchor.IsActive() {
			return nil, subject.ErrNotFound
		}

		result := &relationship.Result{}
		for _, code := range evaluatorCodes {
			s.connectEvaluator(txCtx, anchor, code, label, false, result)
		}
		result.BuildWarnings()
		return result, nil
	})
}

// CreateRelationshipsForEvaluator is the mirror orientation: a fixed
// evaluator anchor connected to each subject code. Same dedup, reactivation
// and Self rules as the subject-anchored call.
func (s *RelationshipService) CreateRelationshipsForEvaluator(
	ctx context.Context,
	evaluatorID uint,
	subjectCodes []string,
	label string,
) (*relationship.Result, error) {
	if !relationship.ValidLabel(label) {
		return nil, errors.Errorf("invalid relationship label %q", label)
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*relationship.Result, error) {
		anchor, err := s.evaluators.GetByID(txCtx, evaluatorID)
		if err != nil {
			return nil, err
		}
		if !anchor.IsActive() {
			return nil, evaluator.ErrNotFound
		}

		result := &relationship.Result{}
		for _, code := range subjectCodes {
			s.connectSubject(txCtx, anchor, code, label, result)
		}
		result.BuildWarnings()
		return result, nil
	})
}

// SyncEvaluators is the merge variant: it connects the subject to every
// listed evaluator and relabels edges whose stored label differs from the
// submitted one.
func (s *RelationshipService) SyncEvaluators(
	ctx context.Context,
	subjectID uint,
	links []EvaluatorLink,
) (*relationship.Result, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*relationship.Result, error) {
		anchor, err := s.subjects.GetByID(txCtx, subjectID)
		if err != nil {
			return nil, err
		}
		if !anchor.IsActive() {
			return nil, subject.ErrNotFound
		}

		result := &relationship.Result{}
		for _, link := range links {
			if !relationship.ValidLabel(link.Label) {
				result.FailedEmployeeIDs = append(result.FailedEmployeeIDs, link.Code)
				continue
			}
			s.connectEvaluator(txCtx, anchor, link.Code, link.Label, true, result)
		}
		result.BuildWarnings()
		return result, nil
	})
}

// connectEvaluator resolves one evaluator code against a subject anchor and
// upserts the edge, recording the outcome in result.
func (s *RelationshipService) connectEvaluator(
	ctx context.Context,
	anchor subject.Subject,
	code, label string,
	relabel bool,
	result *relationship.Result,
) {
	eval, emp, err := s.resolver.ResolveEvaluator(ctx, code)
	if err != nil {
		recordFailure(result, code, err)
		return
	}

	if relationship.IsSelfLabel(label) && emp.ID() != anchor.EmployeeID() {
		result.FailedEmployeeIDs = append(result.FailedEmployeeIDs,
			fmt.Sprintf("%s (Self requires the same employee)", code))
		return
	}

	s.upsertEdge(ctx, anchor.ID(), eval.ID(), code, label, relabel, result)
}

// connectSubject resolves one subject code against an evaluator anchor.
func (s *RelationshipService) connectSubject(
	ctx context.Context,
	anchor evaluator.Evaluator,
	code, label string,
	result *relationship.Result,
) {
	subj, emp, err := s.resolver.ResolveSubject(ctx, code)
	if err != nil {
		recordFailure(result, code, err)
		return
	}

	if relationship.IsSelfLabel(label) && emp.ID() != anchor.EmployeeID() {
		result.FailedEmployeeIDs = append(result.FailedEmployeeIDs,
			fmt.Sprintf("%s (Self requires the same employee)", code))
		return
	}

	s.upsertEdge(ctx, subj.ID(), anchor.ID(), code, label, false, result)
}

// upsertEdge creates, reactivates or (when relabel is set) relabels the edge
// for a resolved (subject, evaluator) pair.
func (s *RelationshipService) upsertEdge(
	ctx context.Context,
	subjectID, evaluatorID uint,
	code, label string,
	relabel bool,
	result *relationship.Result,
) {
	existing, err := s.edges.GetByPair(ctx, subjectID, evaluatorID)
	if err != nil {
		if !errors.Is(err, relationship.ErrNotFound) {
			recordFailure(result, code, err)
			return
		}
		tenantID, err := composables.UseTenantID(ctx)
		if err != nil {
			recordFailure(result, code, err)
			return
		}
		created, err := s.edges.Create(ctx, relationship.NewEdge(tenantID, subjectID, evaluatorID, label))
		if err != nil {
			recordFailure(result, code, err)
			return
		}
		result.SuccessfulConnections++
		s.publisher.Publish(relationship.NewCreatedEvent(created))
		return
	}

	if !existing.IsActive() {
		updated, err := s.edges.Update(ctx, existing.Reactivated().Relabeled(label))
		if err != nil {
			recordFailure(result, code, err)
			return
		}
		result.SuccessfulConnections++
		s.publisher.Publish(relationship.NewReactivatedEvent(updated))
		return
	}

	if relabel && existing.Label() != label {
		if _, err := s.edges.Update(ctx, existing.Relabeled(label)); err != nil {
			recordFailure(result, code, err)
			return
		}
		result.SuccessfulConnections++
		return
	}

	result.DuplicateConnections = append(result.DuplicateConnections, code)
}

func recordFailure(result *relationship.Result, code string, err error) {
	if errors.Is(err, employee.ErrNotFound) {
		result.FailedEmployeeIDs = append(result.FailedEmployeeIDs, code)
		return
	}
	result.FailedEmployeeIDs = append(result.FailedEmployeeIDs,
		fmt.Sprintf("%s (%s)", code, err))
}

// DeactivateForSubject removes all edges anchored on the subject. Used when
// a subject record or its employee is deactivated.
func (s *RelationshipService) DeactivateForSubject(ctx context.Context, subjectID uint) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.edges.DeactivateBySubjectID(txCtx, subjectID)
	})
}

// DeactivateForEvaluator removes all edges pointing at the evaluator.
func (s *RelationshipService) DeactivateForEvaluator(ctx context.Context, evaluatorID uint) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.edges.DeactivateByEvaluatorID(txCtx, evaluatorID)
	})
}
