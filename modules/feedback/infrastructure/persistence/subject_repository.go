package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/persistence/models"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
)

const (
	subjectFindQuery = `
        SELECT
            s.id,
            s.tenant_id,
            s.employee_id,
            s.credential_hash,
            s.is_active,
            s.created_at,
            s.updated_at
        FROM fb_subjects s`

	subjectInsertQuery = `
        INSERT INTO fb_subjects (tenant_id, employee_id, credential_hash, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	subjectUpdateQuery = `
        UPDATE fb_subjects
        SET credential_hash = $1, is_active = $2, updated_at = NOW()
        WHERE id = $3 AND tenant_id = $4`
)

type PgSubjectRepository struct{}

func NewSubjectRepository() subject.Repository {
	return &PgSubjectRepository{}
}

func (g *PgSubjectRepository) querySubjects(ctx context.Context, query string, args ...interface{}) ([]subject.Subject, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]subject.Subject, 0)
	for rows.Next() {
		var row models.Subject
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
		out = append(out, toDomainSubject(row))
	}
	return out, rows.Err()
}

func (g *PgSubjectRepository) GetByID(ctx context.Context, id uint) (subject.Subject, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.querySubjects(ctx, subjectFindQuery+" WHERE s.id = $1 AND s.tenant_id = $2", id, tenantID)
	if err != nil {
		return subject.Subject{}, err
	}
	if len(rows) == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgSubjectRepository) GetByEmployeeID(ctx context.Context, employeeID uint) (subject.Subject, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.querySubjects(ctx, subjectFindQuery+" WHERE s.employee_id = $1 AND s.tenant_id = $2", employeeID, tenantID)
	if err != nil {
		return subject.Subject{}, err
	}
	if len(rows) == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgSubjectRepository) GetByEmployeeIDs(ctx context.Context, employeeIDs []uint) ([]subject.Subject, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	return g.querySubjects(
		ctx,
		subjectFindQuery+" WHERE s.tenant_id = $1 AND s.employee_id = ANY($2)",
		tenantID,
		employeeIDs,
	)
}

func (g *PgSubjectRepository) Create(ctx context.Context, data subject.Subject) (subject.Subject, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to get transaction")
	}

	var id uint
	err = tx.QueryRow(
		ctx,
		subjectInsertQuery,
		tenantID,
		data.EmployeeID(),
		data.CredentialHash(),
		data.IsActive(),
	).Scan(&id)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to create subject")
	}

	return g.GetByID(ctx, id)
}

func (g *PgSubjectRepository) Update(ctx context.Context, data subject.Subject) (subject.Subject, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(
		ctx,
		subjectUpdateQuery,
		data.CredentialHash(),
		data.IsActive(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "failed to update subject")
	}
	if tag.RowsAffected() == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}

	return g.GetByID(ctx, data.ID())
}
