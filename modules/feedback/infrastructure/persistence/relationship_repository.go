package persistence

import (
	"context"
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/relationship"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/persistence/models"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
)

const (
	edgeFindQuery = `
        SELECT
            r.id,
            r.tenant_id,
            r.subject_id,
            r.evaluator_id,
            r.label,
            r.is_active,
            r.created_at,
            r.updated_at
        FROM fb_relationship_edges r`

	edgeInsertQuery = `
        INSERT INTO fb_relationship_edges (tenant_id, subject_id, evaluator_id, label, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	edgeUpdateQuery = `
        UPDATE fb_relationship_edges
        SET label = $1, is_active = $2, updated_at = NOW()
        WHERE id = $3 AND tenant_id = $4`

	edgeDeactivateBySubjectQuery = `
        UPDATE fb_relationship_edges
        SET is_active = FALSE, updated_at = NOW()
        WHERE subject_id = $1 AND tenant_id = $2 AND is_active`

	edgeDeactivateByEvaluatorQuery = `
        UPDATE fb_relationship_edges
        SET is_active = FALSE, updated_at = NOW()
        WHERE evaluator_id = $1 AND tenant_id = $2 AND is_active`
)

type PgRelationshipRepository struct{}

func NewRelationshipRepository() relationship.Repository {
	return &PgRelationshipRepository{}
}

func (g *PgRelationshipRepository) queryEdges(ctx context.Context, query string, args ...interface{}) ([]relationship.Edge, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]relationship.Edge, 0)
	for rows.Next() {
		var row models.RelationshipEdge
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.SubjectID,
			&row.EvaluatorID,
			&row.Label,
			&row.IsActive,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainEdge(row))
	}
	return out, rows.Err()
}

func (g *PgRelationshipRepository) GetByID(ctx context.Context, id uint) (relationship.Edge, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return relationship.Edge{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.queryEdges(ctx, edgeFindQuery+" WHERE r.id = $1 AND r.tenant_id = $2", id, tenantID)
	if err != nil {
		return relationship.Edge{}, err
	}
	if len(rows) == 0 {
		return relationship.Edge{}, relationship.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgRelationshipRepository) GetByIDs(ctx context.Context, ids []uint) ([]relationship.Edge, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	return g.queryEdges(ctx, edgeFindQuery+" WHERE r.tenant_id = $1 AND r.id = ANY($2)", tenantID, ids)
}

func (g *PgRelationshipRepository) GetByPair(ctx context.Context, subjectID, evaluatorID uint) (relationship.Edge, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return relationship.Edge{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.queryEdges(
		ctx,
		edgeFindQuery+" WHERE r.subject_id = $1 AND r.evaluator_id = $2 AND r.tenant_id = $3",
		subjectID,
		evaluatorID,
		tenantID,
	)
	if err != nil {
		return relationship.Edge{}, err
	}
	if len(rows) == 0 {
		return relationship.Edge{}, relationship.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgRelationshipRepository) GetAmong(ctx context.Context, subjectIDs, evaluatorIDs []uint) ([]relationship.Edge, error) {
	if len(subjectIDs) == 0 || len(evaluatorIDs) == 0 {
		return nil, nil
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	return g.queryEdges(
		ctx,
		edgeFindQuery+" WHERE r.tenant_id = $1 AND r.subject_id = ANY($2) AND r.evaluator_id = ANY($3)",
		tenantID,
		subjectIDs,
		evaluatorIDs,
	)
}

func (g *PgRelationshipRepository) GetBySubjectID(ctx context.Context, subjectID uint) ([]relationship.Edge, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	return g.queryEdges(ctx, edgeFindQuery+" WHERE r.subject_id = $1 AND r.tenant_id = $2", subjectID, tenantID)
}

func (g *PgRelationshipRepository) Create(ctx context.Context, data relationship.Edge) (relationship.Edge, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return relationship.Edge{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return relationship.Edge{}, errors.Wrap(err, "failed to get transaction")
	}

	var id uint
	err = tx.QueryRow(
		ctx,
		edgeInsertQuery,
		tenantID,
		data.SubjectID(),
		data.EvaluatorID(),
		data.Label(),
		data.IsActive(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
			return relationship.Edge{}, relationship.ErrDuplicate
		}
		return relationship.Edge{}, errors.Wrap(err, "failed to create relationship edge")
	}

	return g.GetByID(ctx, id)
}

func (g *PgRelationshipRepository) Update(ctx context.Context, data relationship.Edge) (relationship.Edge, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return relationship.Edge{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return relationship.Edge{}, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(
		ctx,
		edgeUpdateQuery,
		data.Label(),
		data.IsActive(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return relationship.Edge{}, errors.Wrap(err, "failed to update relationship edge")
	}
	if tag.RowsAffected() == 0 {
		return relationship.Edge{}, relationship.ErrNotFound
	}

	return g.GetByID(ctx, data.ID())
}

func (g *PgRelationshipRepository) DeactivateBySubjectID(ctx context.Context, subjectID uint) error {
	return g.deactivateBy(ctx, edgeDeactivateBySubjectQuery, subjectID)
}

func (g *PgRelationshipRepository) DeactivateByEvaluatorID(ctx context.Context, evaluatorID uint) error {
	return g.deactivateBy(ctx, edgeDeactivateByEvaluatorQuery, evaluatorID)
}

func (g *PgRelationshipRepository) deactivateBy(ctx context.Context, query string, id uint) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get transaction")
	}

	if _, err := tx.Exec(ctx, query, id, tenantID); err != nil {
		return errors.Wrap(err, "failed to deactivate relationship edges")
	}
	return nil
}
