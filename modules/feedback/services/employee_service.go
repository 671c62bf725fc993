package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/relationship"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
	"github.com/fullcircle-hr/fullcircle/pkg/eventbus"
)

// EmployeeService manages the tenant's employee roster. Deactivating an
// employee cascades onto its role records and their relationship edges;
// nothing is ever physically deleted.
type EmployeeService struct {
	repo       employee.Repository
	subjects   subject.Repository
	evaluators evaluator.Repository
	edges      relationship.Repository
	publisher  eventbus.EventBus
}

func NewEmployeeService(
	repo employee.Repository,
	subjects subject.Repository,
	evaluators evaluator.Repository,
	edges relationship.Repository,
	publisher eventbus.EventBus,
) *EmployeeService {
	return &EmployeeService{
		repo:       repo,
		subjects:   subjects,
		evaluators: evaluators,
		edges:      edges,
		publisher:  publisher,
	}
}

func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *EmployeeService) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]employee.Employee, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *EmployeeService) GetByID(ctx context.Context, id uint) (employee.Employee, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *EmployeeService) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.GetByCode(txCtx, employee.NormalizeCode(code))
	})
}

func (s *EmployeeService) Create(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.Create(txCtx, data)
	})
}

func (s *EmployeeService) Update(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		return s.repo.Update(txCtx, data)
	})
}

// Deactivate retires an employee: the employee row, any subject or evaluator
// record and every edge touching them go inactive in one transaction.
func (s *EmployeeService) Deactivate(ctx context.Context, id uint) (employee.Employee, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (employee.Employee, error) {
		emp, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return employee.Employee{}, err
		}

		updated, err := s.repo.Update(txCtx, emp.Deactivated())
		if err != nil {
			return employee.Employee{}, err
		}

		subj, err := s.subjects.GetByEmployeeID(txCtx, id)
		switch {
		case err == nil:
			if _, err := s.subjects.Update(txCtx, subj.Deactivated()); err != nil {
				return employee.Employee{}, err
			}
			if err := s.edges.DeactivateBySubjectID(txCtx, subj.ID()); err != nil {
				return employee.Employee{}, err
			}
		case !errors.Is(err, subject.ErrNotFound):
			return employee.Employee{}, err
		}

		eval, err := s.evaluators.GetByEmployeeID(txCtx, id)
		switch {
		case err == nil:
			if _, err := s.evaluators.Update(txCtx, eval.Deactivated()); err != nil {
				return employee.Employee{}, err
			}
			if err := s.edges.DeactivateByEvaluatorID(txCtx, eval.ID()); err != nil {
				return employee.Employee{}, err
			}
		case !errors.Is(err, evaluator.ErrNotFound):
			return employee.Employee{}, err
		}

		return updated, nil
	})
}
