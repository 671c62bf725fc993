package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/assignment"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/persistence/models"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
)

const (
	assignmentFindQuery = `
        SELECT
            a.id,
            a.tenant_id,
            a.edge_id,
            a.survey_id,
            a.is_active,
            a.created_at,
            a.updated_at
        FROM fb_assignments a`

	assignmentInsertQuery = `
        INSERT INTO fb_assignments (tenant_id, edge_id, survey_id, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	assignmentUpdateQuery = `
        UPDATE fb_assignments
        SET is_active = $1, updated_at = NOW()
        WHERE id = $2 AND tenant_id = $3`
)

type PgAssignmentRepository struct{}

func NewAssignmentRepository() assignment.Repository {
	return &PgAssignmentRepository{}
}

func (g *PgAssignmentRepository) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]assignment.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]assignment.Assignment, 0)
	for rows.Next() {
		var row models.Assignment
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.EdgeID,
			&row.SurveyID,
			&row.IsActive,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainAssignment(row))
	}
	return out, rows.Err()
}

func (g *PgAssignmentRepository) GetByID(ctx context.Context, id uint) (assignment.Assignment, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.queryAssignments(ctx, assignmentFindQuery+" WHERE a.id = $1 AND a.tenant_id = $2", id, tenantID)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if len(rows) == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgAssignmentRepository) GetByPair(ctx context.Context, edgeID, surveyID uint) (assignment.Assignment, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.queryAssignments(
		ctx,
		assignmentFindQuery+" WHERE a.edge_id = $1 AND a.survey_id = $2 AND a.tenant_id = $3",
		edgeID,
		surveyID,
		tenantID,
	)
	if err != nil {
		return assignment.Assignment{}, err
	}
	if len(rows) == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgAssignmentRepository) GetByEdgeIDs(ctx context.Context, surveyID uint, edgeIDs []uint) ([]assignment.Assignment, error) {
	if len(edgeIDs) == 0 {
		return nil, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	return g.queryAssignments(
		ctx,
		assignmentFindQuery+" WHERE a.tenant_id = $1 AND a.survey_id = $2 AND a.edge_id = ANY($3)",
		tenantID,
		surveyID,
		edgeIDs,
	)
}

func (g *PgAssignmentRepository) Create(ctx context.Context, data assignment.Assignment) (assignment.Assignment, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "failed to get transaction")
	}

	var id uint
	err = tx.QueryRow(
		ctx,
		assignmentInsertQuery,
		tenantID,
		data.EdgeID(),
		data.SurveyID(),
		data.IsActive(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return assignment.Assignment{}, assignment.ErrDuplicate
		}
		return assignment.Assignment{}, errors.Wrap(err, "failed to create assignment")
	}

	return g.GetByID(ctx, id)
}

func (g *PgAssignmentRepository) Update(ctx context.Context, data assignment.Assignment) (assignment.Assignment, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(
		ctx,
		assignmentUpdateQuery,
		data.IsActive(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "failed to update assignment")
	}
	if tag.RowsAffected() == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}

	return g.GetByID(ctx, data.ID())
}
