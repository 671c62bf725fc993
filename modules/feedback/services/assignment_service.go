package services

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/assignment"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/relationship"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
	"github.com/fullcircle-hr/fullcircle/pkg/eventbus"
)

// AssignmentService attaches and detaches surveys on relationship edges. The
// survey is the only fatal precondition; per-edge problems accumulate in the
// result and the rest of the batch proceeds. Successful attachments are
// handed to the dispatcher after commit.
type AssignmentService struct {
	surveys     survey.Repository
	edges       relationship.Repository
	assignments assignment.Repository
	subjects    subject.Repository
	evaluators  evaluator.Repository
	employees   employee.Repository
	publisher   eventbus.EventBus
	dispatcher  *NotificationDispatcher
}

func NewAssignmentService(
	surveys survey.Repository,
	edges relationship.Repository,
	assignments assignment.Repository,
	subjects subject.Repository,
	evaluators evaluator.Repository,
	employees employee.Repository,
	publisher eventbus.EventBus,
	dispatcher *NotificationDispatcher,
) *AssignmentService {
	return &AssignmentService{
		surveys:     surveys,
		edges:       edges,
		assignments: assignments,
		subjects:    subjects,
		evaluators:  evaluators,
		employees:   employees,
		publisher:   publisher,
		dispatcher:  dispatcher,
	}
}

// Assign attaches the survey to each edge. Missing or inactive edges and
// already-active assignments are per-item errors; inactive assignment rows
// are reactivated rather than duplicated.
func (s *AssignmentService) Assign(ctx context.Context, surveyID uint, edgeIDs []uint) (*assignment.Result, error) {
	var outcomes []AssignmentOutcome

	result, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*assignment.Result, error) {
		sv, err := s.activeSurvey(txCtx, surveyID)
		if err != nil {
			return nil, err
		}

		edges, err := s.edges.GetByIDs(txCtx, edgeIDs)
		if err != nil {
			return nil, err
		}
		edgeByID := make(map[uint]relationship.Edge, len(edges))
		for _, e := range edges {
			edgeByID[e.ID()] = e
		}

		existing, err := s.assignments.GetByEdgeIDs(txCtx, surveyID, edgeIDs)
		if err != nil {
			return nil, err
		}
		assignmentByEdge := make(map[uint]assignment.Assignment, len(existing))
		for _, a := range existing {
			assignmentByEdge[a.EdgeID()] = a
		}

		tenantID, err := composables.UseTenantID(txCtx)
		if err != nil {
			return nil, err
		}

		result := &assignment.Result{Success: true}
		for _, edgeID := range edgeIDs {
			edge, ok := edgeByID[edgeID]
			if !ok || !edge.IsActive() {
				result.Errors = append(result.Errors,
					fmt.Sprintf("relationship %d not found or inactive", edgeID))
				continue
			}

			current, exists := assignmentByEdge[edgeID]
			switch {
			case !exists:
				created, err := s.assignments.Create(txCtx, assignment.New(tenantID, edgeID, surveyID))
				if err != nil {
					result.Errors = append(result.Errors,
						fmt.Sprintf("relationship %d: %s", edgeID, err))
					continue
				}
				result.AssignedCount++
				s.publisher.Publish(assignment.NewAssignedEvent(created))
			case !current.IsActive():
				updated, err := s.assignments.Update(txCtx, current.Reactivated())
				if err != nil {
					result.Errors = append(result.Errors,
						fmt.Sprintf("relationship %d: %s", edgeID, err))
					continue
				}
				result.AssignedCount++
				s.publisher.Publish(assignment.NewAssignedEvent(updated))
			default:
				result.Errors = append(result.Errors,
					fmt.Sprintf("survey already assigned to relationship %d", edgeID))
				continue
			}

			outcome, err := s.outcomeForEdge(txCtx, edge, sv)
			if err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("relationship %d: %s", edgeID, err))
				continue
			}
			outcomes = append(outcomes, outcome)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.Enqueue(outcomes)
	}
	return result, nil
}

// Unassign deactivates the assignment rows for the given edges. Missing or
// already-inactive rows are per-item errors.
func (s *AssignmentService) Unassign(ctx context.Context, surveyID uint, edgeIDs []uint) (*assignment.Result, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*assignment.Result, error) {
		if _, err := s.activeSurvey(txCtx, surveyID); err != nil {
			return nil, err
		}

		existing, err := s.assignments.GetByEdgeIDs(txCtx, surveyID, edgeIDs)
		if err != nil {
			return nil, err
		}
		assignmentByEdge := make(map[uint]assignment.Assignment, len(existing))
		for _, a := range existing {
			assignmentByEdge[a.EdgeID()] = a
		}

		result := &assignment.Result{Success: true}
		for _, edgeID := range edgeIDs {
			current, ok := assignmentByEdge[edgeID]
			if !ok || !current.IsActive() {
				result.Errors = append(result.Errors,
					fmt.Sprintf("survey is not assigned to relationship %d", edgeID))
				continue
			}
			updated, err := s.assignments.Update(txCtx, current.Deactivated())
			if err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("relationship %d: %s", edgeID, err))
				continue
			}
			result.UnassignedCount++
			s.publisher.Publish(assignment.NewUnassignedEvent(updated))
		}
		return result, nil
	})
}

func (s *AssignmentService) activeSurvey(ctx context.Context, surveyID uint) (survey.Survey, error) {
	sv, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		return survey.Survey{}, err
	}
	if !sv.IsActive() {
		return survey.Survey{}, survey.ErrNotFound
	}
	return sv, nil
}

// outcomeForEdge loads the people behind an edge for notification purposes.
func (s *AssignmentService) outcomeForEdge(ctx context.Context, edge relationship.Edge, sv survey.Survey) (AssignmentOutcome, error) {
	subj, err := s.subjects.GetByID(ctx, edge.SubjectID())
	if err != nil {
		return AssignmentOutcome{}, errors.Wrap(err, "failed to load subject")
	}
	subjEmp, err := s.employees.GetByID(ctx, subj.EmployeeID())
	if err != nil {
		return AssignmentOutcome{}, errors.Wrap(err, "failed to load subject employee")
	}
	eval, err := s.evaluators.GetByID(ctx, edge.EvaluatorID())
	if err != nil {
		return AssignmentOutcome{}, errors.Wrap(err, "failed to load evaluator")
	}
	evalEmp, err := s.employees.GetByID(ctx, eval.EmployeeID())
	if err != nil {
		return AssignmentOutcome{}, errors.Wrap(err, "failed to load evaluator employee")
	}
	return AssignmentOutcome{
		EvaluatorEmail: evalEmp.Email(),
		EvaluatorName:  evalEmp.FullName(),
		CredentialHash: eval.CredentialHash(),
		SubjectName:    subjEmp.FullName(),
		SurveyTitle:    sv.Title(),
	}, nil
}
