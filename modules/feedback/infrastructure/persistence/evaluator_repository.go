package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/persistence/models"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
)

const (
	evaluatorFindQuery = `
        SELECT
            ev.id,
            ev.tenant_id,
            ev.employee_id,
            ev.credential_hash,
            ev.is_active,
            ev.created_at,
            ev.updated_at
        FROM fb_evaluators ev`

	evaluatorInsertQuery = `
        INSERT INTO fb_evaluators (tenant_id, employee_id, credential_hash, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	evaluatorUpdateQuery = `
        UPDATE fb_evaluators
        SET credential_hash = $1, is_active = $2, updated_at = NOW()
        WHERE id = $3 AND tenant_id = $4`
)

type PgEvaluatorRepository struct{}

func NewEvaluatorRepository() evaluator.Repository {
	return &PgEvaluatorRepository{}
}

func (g *PgEvaluatorRepository) queryEvaluators(ctx context.Context, query string, args ...interface{}) ([]evaluator.Evaluator, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]evaluator.Evaluator, 0)
	for rows.Next() {
		var row models.Evaluator
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.EmployeeID,
			&row.CredentialHash,
			&row.IsActive,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainEvaluator(row))
	}
	return out, rows.Err()
}

func (g *PgEvaluatorRepository) GetByID(ctx context.Context, id uint) (evaluator.Evaluator, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.queryEvaluators(ctx, evaluatorFindQuery+" WHERE ev.id = $1 AND ev.tenant_id = $2", id, tenantID)
	if err != nil {
		return evaluator.Evaluator{}, err
	}
	if len(rows) == 0 {
		return evaluator.Evaluator{}, evaluator.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgEvaluatorRepository) GetByEmployeeID(ctx context.Context, employeeID uint) (evaluator.Evaluator, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.queryEvaluators(ctx, evaluatorFindQuery+" WHERE ev.employee_id = $1 AND ev.tenant_id = $2", employeeID, tenantID)
	if err != nil {
		return evaluator.Evaluator{}, err
	}
	if len(rows) == 0 {
		return evaluator.Evaluator{}, evaluator.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgEvaluatorRepository) GetByEmployeeIDs(ctx context.Context, employeeIDs []uint) ([]evaluator.Evaluator, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	return g.queryEvaluators(
		ctx,
		evaluatorFindQuery+" WHERE ev.tenant_id = $1 AND ev.employee_id = ANY($2)",
		tenantID,
		employeeIDs,
	)
}

func (g *PgEvaluatorRepository) Create(ctx context.Context, data evaluator.Evaluator) (evaluator.Evaluator, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to get transaction")
	}

	var id uint
	err = tx.QueryRow(
		ctx,
		evaluatorInsertQuery,
		tenantID,
		data.EmployeeID(),
		data.CredentialHash(),
		data.IsActive(),
	).Scan(&id)
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to create evaluator")
	}

	return g.GetByID(ctx, id)
}

func (g *PgEvaluatorRepository) Update(ctx context.Context, data evaluator.Evaluator) (evaluator.Evaluator, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(
		ctx,
		evaluatorUpdateQuery,
		data.CredentialHash(),
		data.IsActive(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return evaluator.Evaluator{}, errors.Wrap(err, "failed to update evaluator")
	}
	if tag.RowsAffected() == 0 {
		return evaluator.Evaluator{}, evaluator.ErrNotFound
	}

	return g.GetByID(ctx, data.ID())
}
