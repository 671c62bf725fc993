package services

import (
	"context"
	"time"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/assignment"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/relationship"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
)

// The mocks below are in-memory stores with per-method call counters, so
// tests can assert both behavior and how many queries a pipeline issued.

type callCounter struct {
	calls map[string]int
}

func (c *callCounter) record(name string) {
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[name]++
}

func (c *callCounter) count(name string) int {
	return c.calls[name]
}

type employeeRepoMock struct {
	callCounter
	employees []employee.Employee
	nextID    uint
}

func newEmployeeRepoMock(seed ...employee.Employee) *employeeRepoMock {
	m := &employeeRepoMock{employees: seed}
	for _, e := range seed {
		if e.ID() > m.nextID {
			m.nextID = e.ID()
		}
	}
	return m
}

func (m *employeeRepoMock) Count(ctx context.Context) (int64, error) {
	m.record("Count")
	return int64(len(m.employees)), nil
}

func (m *employeeRepoMock) GetAll(ctx context.Context) ([]employee.Employee, error) {
	m.record("GetAll")
	return m.employees, nil
}

func (m *employeeRepoMock) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	m.record("GetPaginated")
	return m.employees, nil
}

func (m *employeeRepoMock) GetByID(ctx context.Context, id uint) (employee.Employee, error) {
	m.record("GetByID")
	for _, e := range m.employees {
		if e.ID() == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (m *employeeRepoMock) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	m.record("GetByCode")
	for _, e := range m.employees {
		if e.Code() == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (m *employeeRepoMock) GetByCodes(ctx context.Context, codes []string) ([]employee.Employee, error) {
	m.record("GetByCodes")
	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[code] = struct{}{}
	}
	var out []employee.Employee
	for _, e := range m.employees {
		if _, ok := wanted[e.Code()]; ok && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *employeeRepoMock) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	m.record("Create")
	m.nextID++
	now := time.Now()
	created := employee.Hydrate(
		m.nextID, e.TenantID(), e.Code(), e.FirstName(), e.LastName(), e.Email(), e.Position(),
		e.IsActive(), now, now,
	)
	m.employees = append(m.employees, created)
	return created, nil
}

func (m *employeeRepoMock) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	m.record("Update")
	for i, existing := range m.employees {
		if existing.ID() == e.ID() {
			m.employees[i] = e
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

type subjectRepoMock struct {
	callCounter
	records []subject.Subject
	nextID  uint
}

func newSubjectRepoMock(seed ...subject.Subject) *subjectRepoMock {
	m := &subjectRepoMock{records: seed}
	for _, s := range seed {
		if s.ID() > m.nextID {
			m.nextID = s.ID()
		}
	}
	return m
}

func (m *subjectRepoMock) GetByID(ctx context.Context, id uint) (subject.Subject, error) {
	m.record("GetByID")
	for _, s := range m.records {
		if s.ID() == id {
			return s, nil
		}
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (m *subjectRepoMock) GetByEmployeeID(ctx context.Context, employeeID uint) (subject.Subject, error) {
	m.record("GetByEmployeeID")
	for _, s := range m.records {
		if s.EmployeeID() == employeeID {
			return s, nil
		}
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (m *subjectRepoMock) GetByEmployeeIDs(ctx context.Context, employeeIDs []uint) ([]subject.Subject, error) {
	m.record("GetByEmployeeIDs")
	wanted := make(map[uint]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = struct{}{}
	}
	var out []subject.Subject
	for _, s := range m.records {
		if _, ok := wanted[s.EmployeeID()]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *subjectRepoMock) Create(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	m.record("Create")
	m.nextID++
	now := time.Now()
	created := subject.Hydrate(m.nextID, s.TenantID(), s.EmployeeID(), s.CredentialHash(), s.IsActive(), now, now)
	m.records = append(m.records, created)
	return created, nil
}

func (m *subjectRepoMock) Update(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	m.record("Update")
	for i, existing := range m.records {
		if existing.ID() == s.ID() {
			m.records[i] = s
			return s, nil
		}
	}
	return subject.Subject{}, subject.ErrNotFound
}

type evaluatorRepoMock struct {
	callCounter
	records []evaluator.Evaluator
	nextID  uint
}

func newEvaluatorRepoMock(seed ...evaluator.Evaluator) *evaluatorRepoMock {
	m := &evaluatorRepoMock{records: seed}
	for _, e := range seed {
		if e.ID() > m.nextID {
			m.nextID = e.ID()
		}
	}
	return m
}

func (m *evaluatorRepoMock) GetByID(ctx context.Context, id uint) (evaluator.Evaluator, error) {
	m.record("GetByID")
	for _, e := range m.records {
		if e.ID() == id {
			return e, nil
		}
	}
	return evaluator.Evaluator{}, evaluator.ErrNotFound
}

func (m *evaluatorRepoMock) GetByEmployeeID(ctx context.Context, employeeID uint) (evaluator.Evaluator, error) {
	m.record("GetByEmployeeID")
	for _, e := range m.records {
		if e.EmployeeID() == employeeID {
			return e, nil
		}
	}
	return evaluator.Evaluator{}, evaluator.ErrNotFound
}

func (m *evaluatorRepoMock) GetByEmployeeIDs(ctx context.Context, employeeIDs []uint) ([]evaluator.Evaluator, error) {
	m.record("GetByEmployeeIDs")
	wanted := make(map[uint]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = struct{}{}
	}
	var out []evaluator.Evaluator
	for _, e := range m.records {
		if _, ok := wanted[e.EmployeeID()]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *evaluatorRepoMock) Create(ctx context.Context, e evaluator.Evaluator) (evaluator.Evaluator, error) {
	m.record("Create")
	m.nextID++
	now := time.Now()
	created := evaluator.Hydrate(m.nextID, e.TenantID(), e.EmployeeID(), e.CredentialHash(), e.IsActive(), now, now)
	m.records = append(m.records, created)
	return created, nil
}

func (m *evaluatorRepoMock) Update(ctx context.Context, e evaluator.Evaluator) (evaluator.Evaluator, error) {
	m.record("Update")
	for i, existing := range m.records {
		if existing.ID() == e.ID() {
			m.records[i] = e
			return e, nil
		}
	}
	return evaluator.Evaluator{}, evaluator.ErrNotFound
}

type relationshipRepoMock struct {
	callCounter
	edges  []relationship.Edge
	nextID uint
}

func newRelationshipRepoMock(seed ...relationship.Edge) *relationshipRepoMock {
	m := &relationshipRepoMock{edges: seed}
	for _, e := range seed {
		if e.ID() > m.nextID {
			m.nextID = e.ID()
		}
	}
	return m
}

func (m *relationshipRepoMock) GetByID(ctx context.Context, id uint) (relationship.Edge, error) {
	m.record("GetByID")
	for _, e := range m.edges {
		if e.ID() == id {
			return e, nil
		}
	}
	return relationship.Edge{}, relationship.ErrNotFound
}

func (m *relationshipRepoMock) GetByIDs(ctx context.Context, ids []uint) ([]relationship.Edge, error) {
	m.record("GetByIDs")
	wanted := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []relationship.Edge
	for _, e := range m.edges {
		if _, ok := wanted[e.ID()]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *relationshipRepoMock) GetByPair(ctx context.Context, subjectID, evaluatorID uint) (relationship.Edge, error) {
	m.record("GetByPair")
	for _, e := range m.edges {
		if e.SubjectID() == subjectID && e.EvaluatorID() == evaluatorID {
			return e, nil
		}
	}
	return relationship.Edge{}, relationship.ErrNotFound
}

func (m *relationshipRepoMock) GetAmong(ctx context.Context, subjectIDs, evaluatorIDs []uint) ([]relationship.Edge, error) {
	m.record("GetAmong")
	subjects := make(map[uint]struct{}, len(subjectIDs))
	for _, id := range subjectIDs {
		subjects[id] = struct{}{}
	}
	evaluators := make(map[uint]struct{}, len(evaluatorIDs))
	for _, id := range evaluatorIDs {
		evaluators[id] = struct{}{}
	}
	var out []relationship.Edge
	for _, e := range m.edges {
		_, sOK := subjects[e.SubjectID()]
		_, eOK := evaluators[e.EvaluatorID()]
		if sOK && eOK {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *relationshipRepoMock) GetBySubjectID(ctx context.Context, subjectID uint) ([]relationship.Edge, error) {
	m.record("GetBySubjectID")
	var out []relationship.Edge
	for _, e := range m.edges {
		if e.SubjectID() == subjectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *relationshipRepoMock) Create(ctx context.Context, e relationship.Edge) (relationship.Edge, error) {
	m.record("Create")
	for _, existing := range m.edges {
		if existing.SubjectID() == e.SubjectID() && existing.EvaluatorID() == e.EvaluatorID() {
			return relationship.Edge{}, relationship.ErrDuplicate
		}
	}
	m.nextID++
	now := time.Now()
	created := relationship.Hydrate(
		m.nextID, e.TenantID(), e.SubjectID(), e.EvaluatorID(), e.Label(), e.IsActive(), now, now,
	)
	m.edges = append(m.edges, created)
	return created, nil
}

func (m *relationshipRepoMock) Update(ctx context.Context, e relationship.Edge) (relationship.Edge, error) {
	m.record("Update")
	for i, existing := range m.edges {
		if existing.ID() == e.ID() {
			m.edges[i] = e
			return e, nil
		}
	}
	return relationship.Edge{}, relationship.ErrNotFound
}

func (m *relationshipRepoMock) DeactivateBySubjectID(ctx context.Context, subjectID uint) error {
	m.record("DeactivateBySubjectID")
	for i, e := range m.edges {
		if e.SubjectID() == subjectID {
			m.edges[i] = e.Deactivated()
		}
	}
	return nil
}

func (m *relationshipRepoMock) DeactivateByEvaluatorID(ctx context.Context, evaluatorID uint) error {
	m.record("DeactivateByEvaluatorID")
	for i, e := range m.edges {
		if e.EvaluatorID() == evaluatorID {
			m.edges[i] = e.Deactivated()
		}
	}
	return nil
}

type assignmentRepoMock struct {
	callCounter
	rows   []assignment.Assignment
	nextID uint
}

func newAssignmentRepoMock(seed ...assignment.Assignment) *assignmentRepoMock {
	m := &assignmentRepoMock{rows: seed}
	for _, a := range seed {
		if a.ID() > m.nextID {
			m.nextID = a.ID()
		}
	}
	return m
}

func (m *assignmentRepoMock) GetByID(ctx context.Context, id uint) (assignment.Assignment, error) {
	m.record("GetByID")
	for _, a := range m.rows {
		if a.ID() == id {
			return a, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (m *assignmentRepoMock) GetByPair(ctx context.Context, edgeID, surveyID uint) (assignment.Assignment, error) {
	m.record("GetByPair")
	for _, a := range m.rows {
		if a.EdgeID() == edgeID && a.SurveyID() == surveyID {
			return a, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (m *assignmentRepoMock) GetByEdgeIDs(ctx context.Context, surveyID uint, edgeIDs []uint) ([]assignment.Assignment, error) {
	m.record("GetByEdgeIDs")
	wanted := make(map[uint]struct{}, len(edgeIDs))
	for _, id := range edgeIDs {
		wanted[id] = struct{}{}
	}
	var out []assignment.Assignment
	for _, a := range m.rows {
		if _, ok := wanted[a.EdgeID()]; ok && a.SurveyID() == surveyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *assignmentRepoMock) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	m.record("Create")
	for _, existing := range m.rows {
		if existing.EdgeID() == a.EdgeID() && existing.SurveyID() == a.SurveyID() {
			return assignment.Assignment{}, assignment.ErrDuplicate
		}
	}
	m.nextID++
	now := time.Now()
	created := assignment.Hydrate(m.nextID, a.TenantID(), a.EdgeID(), a.SurveyID(), a.IsActive(), now, now)
	m.rows = append(m.rows, created)
	return created, nil
}

func (m *assignmentRepoMock) Update(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	m.record("Update")
	for i, existing := range m.rows {
		if existing.ID() == a.ID() {
			m.rows[i] = a
			return a, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

type surveyRepoMock struct {
	callCounter
	surveys []survey.Survey
	nextID  uint
}

func newSurveyRepoMock(seed ...survey.Survey) *surveyRepoMock {
	m := &surveyRepoMock{surveys: seed}
	for _, s := range seed {
		if s.ID() > m.nextID {
			m.nextID = s.ID()
		}
	}
	return m
}

func (m *surveyRepoMock) Count(ctx context.Context) (int64, error) {
	m.record("Count")
	return int64(len(m.surveys)), nil
}

func (m *surveyRepoMock) GetAll(ctx context.Context) ([]survey.Survey, error) {
	m.record("GetAll")
	return m.surveys, nil
}

func (m *surveyRepoMock) GetPaginated(ctx context.Context, params *survey.FindParams) ([]survey.Survey, error) {
	m.record("GetPaginated")
	return m.surveys, nil
}

func (m *surveyRepoMock) GetByID(ctx context.Context, id uint) (survey.Survey, error) {
	m.record("GetByID")
	for _, s := range m.surveys {
		if s.ID() == id {
			return s, nil
		}
	}
	return survey.Survey{}, survey.ErrNotFound
}

func (m *surveyRepoMock) Create(ctx context.Context, s survey.Survey) (survey.Survey, error) {
	m.record("Create")
	m.nextID++
	now := time.Now()
	created := survey.Hydrate(m.nextID, s.TenantID(), s.Title(), s.Description(), s.IsActive(), now, now)
	m.surveys = append(m.surveys, created)
	return created, nil
}

func (m *surveyRepoMock) Update(ctx context.Context, s survey.Survey) (survey.Survey, error) {
	m.record("Update")
	for i, existing := range m.surveys {
		if existing.ID() == s.ID() {
			m.surveys[i] = s
			return s, nil
		}
	}
	return survey.Survey{}, survey.ErrNotFound
}
