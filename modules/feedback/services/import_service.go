package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/assignment"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/relationship"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/credentials"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
	"github.com/fullcircle-hr/fullcircle/pkg/eventbus"
)

// ImportRow is one (subject, evaluator, label) triple from an uploaded file.
type ImportRow struct {
	SubjectCode   string
	EvaluatorCode string
	Label         string
}

// ImportService ingests relationship/assignment rows in bulk. The pipeline
// pre-fetches every entity the batch can touch in a fixed number of queries,
// then processes rows sequentially against an in-memory cache, so database
// traffic scales with the distinct-code count rather than the row count. All
// writes land in one transaction; row-level problems are accumulated and do
// not roll the batch back.
type ImportService struct {
	employees   employee.Repository
	subjects    subject.Repository
	evaluators  evaluator.Repository
	edges       relationship.Repository
	assignments assignment.Repository
	surveys     survey.Repository
	generator   *credentials.Generator
	publisher   eventbus.EventBus
	dispatcher  *NotificationDispatcher
}

func NewImportService(
	employees employee.Repository,
	subjects subject.Repository,
	evaluators evaluator.Repository,
	edges relationship.Repository,
	assignments assignment.Repository,
	surveys survey.Repository,
	generator *credentials.Generator,
	publisher eventbus.EventBus,
	dispatcher *NotificationDispatcher,
) *ImportService {
	return &ImportService{
		employees:   employees,
		subjects:    subjects,
		evaluators:  evaluators,
		edges:       edges,
		assignments: assignments,
		surveys:     surveys,
		generator:   generator,
		publisher:   publisher,
		dispatcher:  dispatcher,
	}
}

type edgeKey struct {
	subjectID   uint
	evaluatorID uint
}

// importCache holds everything one import call has seen, pre-fetched or
// created. Records created mid-batch are written back immediately so later
// rows referencing the same code reuse them instead of double-creating.
type importCache struct {
	subjects    subject.Repository
	evaluators  evaluator.Repository
	generator   *credentials.Generator
	byCode      map[string]employee.Employee
	subjectFor  map[uint]subject.Subject
	evalFor     map[uint]evaluator.Evaluator
	edgeForPair map[edgeKey]relationship.Edge
	byEdge      map[uint]assignment.Assignment

	// assignedInBatch marks edges whose assignment was written by this
	// import call, so a repeated row is a conflict while a row matching a
	// pre-existing assignment stays a no-op.
	assignedInBatch map[uint]struct{}
}

// ensureSubject returns the active subject record for an employee, creating
// or reactivating through the cache.
func (c *importCache) ensureSubject(ctx context.Context, emp employee.Employee) (subject.Subject, error) {
	if cached, ok := c.subjectFor[emp.ID()]; ok {
		if cached.IsActive() {
			return cached, nil
		}
		updated, err := c.subjects.Update(ctx, cached.Reactivated())
		if err != nil {
			return subject.Subject{}, err
		}
		c.subjectFor[emp.ID()] = updated
		return updated, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return subject.Subject{}, err
	}
	hash, err := c.generator.Hash(c.generator.Generate(emp.Email()))
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to hash subject credential")
	}
	created, err := c.subjects.Create(ctx, subject.New(tenantID, emp.ID(), hash))
	if err != nil {
		return subject.Subject{}, err
	}
	c.subjectFor[emp.ID()] = created
	return created, nil
}

func (c *importCache) ensureEvaluator(ctx context.Context, emp employee.Employee) (evaluator.Evaluator, error) {
	if cached, ok := c.evalFor[emp.ID()]; ok {
		if cached.IsActive() {
			return cached, nil
		}
		updated, err := c.evaluators.Update(ctx, cached.Reactivated())
		if err != nil {
			return evaluator.Evaluator{}, err
		}
		c.evalFor[emp.ID()] = updated
		return updated, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return evaluator.Evaluator{}, err
	}
	hash, err := c.generator.Hash(c.generator.Generate(emp.Email()))
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to hash evaluator credential")
	}
	created, err := c.evaluators.Create(ctx, evaluator.New(tenantID, emp.ID(), hash))
	if err != nil {
		return evaluator.Evaluator{}, err
	}
	c.evalFor[emp.ID()] = created
	return created, nil
}

// ImportAssignments runs the full pipeline for one survey: pre-scan, bulk
// pre-fetch, sequential row processing, one commit, then notification
// hand-off. Row errors use the form "Row <n>: <reason>" with 1-based row
// numbers.
func (s *ImportService) ImportAssignments(ctx context.Context, surveyID uint, rows []ImportRow) (*assignment.Result, error) {
	var outcomes []AssignmentOutcome

	result, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (*assignment.Result, error) {
		sv, err := s.surveys.GetByID(txCtx, surveyID)
		if err != nil {
			return nil, err
		}
		if !sv.IsActive() {
			return nil, survey.ErrNotFound
		}

		cache, err := s.prefetch(txCtx, surveyID, rows)
		if err != nil {
			return nil, err
		}

		result := &assignment.Result{Success: true}
		for i, row := range rows {
			outcome, rowErr := s.processRow(txCtx, cache, sv, row)
			if rowErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", i+1, rowErr))
				continue
			}
			if outcome != nil {
				result.AssignedCount++
				outcomes = append(outcomes, *outcome)
			}
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

// prefetch issues the five bulk queries for the batch and assembles the
// cache. Query count depends on the distinct codes in the file, never on the
// row count.
func (s *ImportService) prefetch(ctx context.Context, surveyID uint, rows []ImportRow) (*importCache, error) {
	subjectCodes := make(map[string]struct{})
	evaluatorCodes := make(map[string]struct{})
	for _, row := range rows {
		if code := employee.NormalizeCode(row.SubjectCode); code != "" {
			subjectCodes[code] = struct{}{}
		}
		if code := employee.NormalizeCode(row.EvaluatorCode); code != "" {
			evaluatorCodes[code] = struct{}{}
		}
	}
	allCodes := make([]string, 0, len(subjectCodes)+len(evaluatorCodes))
	for code := range subjectCodes {
		allCodes = append(allCodes, code)
	}
	for code := range evaluatorCodes {
		if _, dup := subjectCodes[code]; !dup {
			allCodes = append(allCodes, code)
		}
	}

	cache := &importCache{
		subjects:        s.subjects,
		evaluators:      s.evaluators,
		generator:       s.generator,
		byCode:          make(map[string]employee.Employee),
		subjectFor:      make(map[uint]subject.Subject),
		evalFor:         make(map[uint]evaluator.Evaluator),
		edgeForPair:     make(map[edgeKey]relationship.Edge),
		byEdge:          make(map[uint]assignment.Assignment),
		assignedInBatch: make(map[uint]struct{}),
	}

	found, err := s.employees.GetByCodes(ctx, allCodes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prefetch employees")
	}
	subjectEmployeeIDs := make([]uint, 0, len(found))
	evaluatorEmployeeIDs := make([]uint, 0, len(found))
	for _, emp := range found {
		cache.byCode[emp.Code()] = emp
		if _, ok := subjectCodes[emp.Code()]; ok {
			subjectEmployeeIDs = append(subjectEmployeeIDs, emp.ID())
		}
		if _, ok := evaluatorCodes[emp.Code()]; ok {
			evaluatorEmployeeIDs = append(evaluatorEmployeeIDs, emp.ID())
		}
	}

	subjectRecords, err := s.subjects.GetByEmployeeIDs(ctx, subjectEmployeeIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prefetch subjects")
	}
	subjectIDs := make([]uint, 0, len(subjectRecords))
	for _, rec := range subjectRecords {
		cache.subjectFor[rec.EmployeeID()] = rec
		subjectIDs = append(subjectIDs, rec.ID())
	}

	evaluatorRecords, err := s.evaluators.GetByEmployeeIDs(ctx, evaluatorEmployeeIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prefetch evaluators")
	}
	evaluatorIDs := make([]uint, 0, len(evaluatorRecords))
	for _, rec := range evaluatorRecords {
		cache.evalFor[rec.EmployeeID()] = rec
		evaluatorIDs = append(evaluatorIDs, rec.ID())
	}

	existingEdges, err := s.edges.GetAmong(ctx, subjectIDs, evaluatorIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prefetch relationships")
	}
	edgeIDs := make([]uint, 0, len(existingEdges))
	for _, e := range existingEdges {
		cache.edgeForPair[edgeKey{e.SubjectID(), e.EvaluatorID()}] = e
		edgeIDs = append(edgeIDs, e.ID())
	}

	existingAssignments, err := s.assignments.GetByEdgeIDs(ctx, surveyID, edgeIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prefetch assignments")
	}
	for _, a := range existingAssignments {
		cache.byEdge[a.EdgeID()] = a
	}

	return cache, nil
}

// processRow drives one row through resolution, edge upsert and assignment
// upsert. A nil outcome with nil error means the assignment was already
// active before this import and nothing needs writing or notifying; the same
// pair appearing twice within the file is reported as a conflict.
func (s *ImportService) processRow(
	ctx context.Context,
	cache *importCache,
	sv survey.Survey,
	row ImportRow,
) (*AssignmentOutcome, error) {
	subjectCode := employee.NormalizeCode(row.SubjectCode)
	evaluatorCode := employee.NormalizeCode(row.EvaluatorCode)
	label := strings.TrimSpace(row.Label)

	if subjectCode == "" {
		return nil, errors.New("subject code is required")
	}
	if evaluatorCode == "" {
		return nil, errors.New("evaluator code is required")
	}
	if !relationship.ValidLabel(label) {
		return nil, errors.Errorf("relationship label must be 1-%d characters", relationship.MaxLabelLength)
	}

	subjectEmp, ok := cache.byCode[subjectCode]
	if !ok {
		return nil, errors.Errorf("unknown employee code %q", subjectCode)
	}
	evaluatorEmp, ok := cache.byCode[evaluatorCode]
	if !ok {
		return nil, errors.Errorf("unknown employee code %q", evaluatorCode)
	}

	if relationship.IsSelfLabel(label) && subjectEmp.ID() != evaluatorEmp.ID() {
		return nil, errors.New("Self relationship requires the same employee on both sides")
	}

	subj, err := cache.ensureSubject(ctx, subjectEmp)
	if err != nil {
		return nil, err
	}
	eval, err := cache.ensureEvaluator(ctx, evaluatorEmp)
	if err != nil {
		return nil, err
	}

	edge, err := s.ensureEdge(ctx, cache, subj, eval, label)
	if err != nil {
		return nil, err
	}

	current, exists := cache.byEdge[edge.ID()]
	_, writtenThisBatch := cache.assignedInBatch[edge.ID()]
	switch {
	case exists && current.IsActive() && writtenThisBatch:
		// A repeated row inside the same file is a conflict.
		return nil, errors.New("survey already assigned to this relationship")
	case exists && current.IsActive():
		// Assigned before this import; no write, no notification.
		return nil, nil
	case exists:
		updated, err := s.assignments.Update(ctx, current.Reactivated())
		if err != nil {
			return nil, err
		}
		cache.byEdge[edge.ID()] = updated
		cache.assignedInBatch[edge.ID()] = struct{}{}
		s.publisher.Publish(assignment.NewAssignedEvent(updated))
	default:
		tenantID, err := composables.UseTenantID(ctx)
		if err != nil {
			return nil, err
		}
		created, err := s.assignments.Create(ctx, assignment.New(tenantID, edge.ID(), sv.ID()))
		if err != nil {
			return nil, err
		}
		cache.byEdge[edge.ID()] = created
		cache.assignedInBatch[edge.ID()] = struct{}{}
		s.publisher.Publish(assignment.NewAssignedEvent(created))
	}

	return &AssignmentOutcome{
		EvaluatorEmail: evaluatorEmp.Email(),
		EvaluatorName:  evaluatorEmp.FullName(),
		CredentialHash: eval.CredentialHash(),
		SubjectName:    subjectEmp.FullName(),
		SurveyTitle:    sv.Title(),
	}, nil
}

func (s *ImportService) ensureEdge(
	ctx context.Context,
	cache *importCache,
	subj subject.Subject,
	eval evaluator.Evaluator,
	label string,
) (relationship.Edge, error) {
	key := edgeKey{subj.ID(), eval.ID()}
	if existing, ok := cache.edgeForPair[key]; ok {
		switch {
		case !existing.IsActive():
			updated, err := s.edges.Update(ctx, existing.Reactivated().Relabeled(label))
			if err != nil {
				return relationship.Edge{}, err
			}
			cache.edgeForPair[key] = updated
			s.publisher.Publish(relationship.NewReactivatedEvent(updated))
			return updated, nil
		case existing.Label() != label:
			updated, err := s.edges.Update(ctx, existing.Relabeled(label))
			if err != nil {
				return relationship.Edge{}, err
			}
			cache.edgeForPair[key] = updated
			return updated, nil
		default:
			return existing, nil
		}
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return relationship.Edge{}, err
	}
	created, err := s.edges.Create(ctx, relationship.NewEdge(tenantID, subj.ID(), eval.ID(), label))
	if err != nil {
		return relationship.Edge{}, err
	}
	cache.edgeForPair[key] = created
	s.publisher.Publish(relationship.NewCreatedEvent(created))
	return created, nil
}
