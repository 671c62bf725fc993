package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/credentials"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
)

// IdentityResolver turns an external employee code into the role record
// (subject or evaluator) for that employee, creating or reactivating the
// record as needed. New records get a deterministic credential so it can be
// recomputed later for display. Writes stay inside the caller's transaction.
type IdentityResolver struct {
	employees  employee.Repository
	subjects   subject.Repository
	evaluators evaluator.Repository
	generator  *credentials.Generator
}

func NewIdentityResolver(
	employees employee.Repository,
	subjects subject.Repository,
	evaluators evaluator.Repository,
	generator *credentials.Generator,
) *IdentityResolver {
	return &IdentityResolver{
		employees:  employees,
		subjects:   subjects,
		evaluators: evaluators,
		generator:  generator,
	}
}

// ResolveSubject resolves code to an active subject record, creating or
// reactivating it. Returns employee.ErrNotFound when the code does not match
// an active employee in the tenant.
func (r *IdentityResolver) ResolveSubject(ctx context.Context, code string) (subject.Subject, employee.Employee, error) {
	emp, err := r.lookupEmployee(ctx, code)
	if err != nil {
		return subject.Subject{}, employee.Employee{}, err
	}
	s, err := r.SubjectFor(ctx, emp)
	return s, emp, err
}

// ResolveEvaluator is the evaluator counterpart of ResolveSubject.
func (r *IdentityResolver) ResolveEvaluator(ctx context.Context, code string) (evaluator.Evaluator, employee.Employee, error) {
	emp, err := r.lookupEmployee(ctx, code)
	if err != nil {
		return evaluator.Evaluator{}, employee.Employee{}, err
	}
	e, err := r.EvaluatorFor(ctx, emp)
	return e, emp, err
}

// SubjectFor ensures an active subject record for an already-resolved
// employee. Inactive records are reactivated in place, active ones reused.
func (r *IdentityResolver) SubjectFor(ctx context.Context, emp employee.Employee) (subject.Subject, error) {
	existing, err := r.subjects.GetByEmployeeID(ctx, emp.ID())
	if err == nil {
		if existing.IsActive() {
			return existing, nil
		}
		return r.subjects.Update(ctx, existing.Reactivated())
	}
	if !errors.Is(err, subject.ErrNotFound) {
		return subject.Subject{}, err
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return subject.Subject{}, err
	}
	hash, err := r.generator.Hash(r.generator.Generate(emp.Email()))
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to hash subject credential")
	}
	return r.subjects.Create(ctx, subject.New(tenantID, emp.ID(), hash))
}

// EvaluatorFor ensures an active evaluator record for an already-resolved
// employee.
func (r *IdentityResolver) EvaluatorFor(ctx context.Context, emp employee.Employee) (evaluator.Evaluator, error) {
	existing, err := r.evaluators.GetByEmployeeID(ctx, emp.ID())
	if err == nil {
		if existing.IsActive() {
			return existing, nil
		}
		return r.evaluators.Update(ctx, existing.Reactivated())
	}
	if !errors.Is(err, evaluator.ErrNotFound) {
		return evaluator.Evaluator{}, err
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return evaluator.Evaluator{}, err
	}
	hash, err := r.generator.Hash(r.generator.Generate(emp.Email()))
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to hash evaluator credential")
	}
	return r.evaluators.Create(ctx, evaluator.New(tenantID, emp.ID(), hash))
}

func (r *IdentityResolver) lookupEmployee(ctx context.Context, code string) (employee.Employee, error) {
	emp, err := r.employees.GetByCode(ctx, employee.NormalizeCode(code))
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.IsActive() {
		return employee.Employee{}, employee.ErrNotFound
	}
	return emp, nil
}
