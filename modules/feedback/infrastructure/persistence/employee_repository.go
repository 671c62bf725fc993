package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/persistence/models"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
	"github.com/fullcircle-hr/fullcircle/pkg/repo"
)

const (
	employeeFindQuery = `
        SELECT
            e.id,
            e.tenant_id,
            e.code,
            e.first_name,
            e.last_name,
            e.email,
            e.position,
            e.is_active,
            e.created_at,
            e.updated_at
        FROM fb_employees e`

	employeeCountQuery = `SELECT COUNT(e.id) FROM fb_employees e WHERE e.tenant_id = $1`

	employeeInsertQuery = `
        INSERT INTO fb_employees (tenant_id, code, first_name, last_name, email, position, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	employeeUpdateQuery = `
        UPDATE fb_employees
        SET code = $1, first_name = $2, last_name = $3, email = $4, position = $5, is_active = $6, updated_at = NOW()
        WHERE id = $7 AND tenant_id = $8`
)

type PgEmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &PgEmployeeRepository{}
}

func (g *PgEmployeeRepository) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]employee.Employee, 0)
	for rows.Next() {
		var row models.Employee
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.Code,
			&row.FirstName,
			&row.LastName,
			&row.Email,
			&row.Position,
			&row.IsActive,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainEmployee(row))
	}
	return out, rows.Err()
}

func (g *PgEmployeeRepository) Count(ctx context.Context) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var count int64
	if err := tx.QueryRow(ctx, employeeCountQuery, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count employees")
	}
	return count, nil
}

func (g *PgEmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	return g.queryEmployees(ctx, employeeFindQuery+" WHERE e.tenant_id = $1 ORDER BY e.code", tenantID)
}

func (g *PgEmployeeRepository) GetPaginated(ctx context.Context, params *employee.FindParams) ([]employee.Employee, error) {
	if params == nil {
		params = &employee.FindParams{}
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"e.tenant_id = $1"}
	args := []interface{}{tenantID}

	if params.Search != "" {
		where = append(where, "(e.code ILIKE $2 OR e.first_name ILIKE $2 OR e.last_name ILIKE $2 OR e.email ILIKE $2)")
		args = append(args, "%"+params.Search+"%")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := repo.Join(
		employeeFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY e.code",
		repo.FormatLimitOffset(limit, offset),
	)
	return g.queryEmployees(ctx, query, args...)
}

func (g *PgEmployeeRepository) GetByID(ctx context.Context, id uint) (employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.queryEmployees(ctx, employeeFindQuery+" WHERE e.id = $1 AND e.tenant_id = $2", id, tenantID)
	if err != nil {
		return employee.Employee{}, err
	}
	if len(rows) == 0 {
		return employee.Employee{}, employee.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgEmployeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.queryEmployees(
		ctx,
		employeeFindQuery+" WHERE e.code = $1 AND e.tenant_id = $2",
		employee.NormalizeCode(code),
		tenantID,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if len(rows) == 0 {
		return employee.Employee{}, employee.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgEmployeeRepository) GetByCodes(ctx context.Context, codes []string) ([]employee.Employee, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		normalized = append(normalized, employee.NormalizeCode(code))
	}

	return g.queryEmployees(
		ctx,
		employeeFindQuery+" WHERE e.tenant_id = $1 AND e.is_active AND e.code = ANY($2)",
		tenantID,
		normalized,
	)
}

func (g *PgEmployeeRepository) Create(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "failed to get transaction")
	}

	var id uint
	err = tx.QueryRow(
		ctx,
		employeeInsertQuery,
		tenantID,
		data.Code(),
		data.FirstName(),
		data.LastName(),
		data.Email(),
		data.Position(),
		data.IsActive(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return employee.Employee{}, employee.ErrCodeTaken
		}
		return employee.Employee{}, errors.Wrap(err, "failed to create employee")
	}

	return g.GetByID(ctx, id)
}

func (g *PgEmployeeRepository) Update(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(
		ctx,
		employeeUpdateQuery,
		data.Code(),
		data.FirstName(),
		data.LastName(),
		data.Email(),
		data.Position(),
		data.IsActive(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return employee.Employee{}, errors.Wrap(err, "failed to update employee")
	}
	if tag.RowsAffected() == 0 {
		return employee.Employee{}, employee.ErrNotFound
	}

	return g.GetByID(ctx, data.ID())
}
