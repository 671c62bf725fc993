package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/persistence/models"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
	"github.com/fullcircle-hr/fullcircle/pkg/repo"
)

const (
	surveyFindQuery = `
        SELECT
            sv.id,
            sv.tenant_id,
            sv.title,
            sv.description,
            sv.is_active,
            sv.created_at,
            sv.updated_at
        FROM fb_surveys sv`

	surveyCountQuery = `SELECT COUNT(sv.id) FROM fb_surveys sv WHERE sv.tenant_id = $1`

	surveyInsertQuery = `
        INSERT INTO fb_surveys (tenant_id, title, description, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	surveyUpdateQuery = `
        UPDATE fb_surveys
        SET title = $1, description = $2, is_active = $3, updated_at = NOW()
        WHERE id = $4 AND tenant_id = $5`
)

type PgSurveyRepository struct{}

func NewSurveyRepository() survey.Repository {
	return &PgSurveyRepository{}
}

func (g *PgSurveyRepository) querySurveys(ctx context.Context, query string, args ...interface{}) ([]survey.Survey, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]survey.Survey, 0)
	for rows.Next() {
		var row models.Survey
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.Title,
			&row.Description,
			&row.IsActive,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainSurvey(row))
	}
	return out, rows.Err()
}

func (g *PgSurveyRepository) Count(ctx context.Context) (int64, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get transaction")
	}

	var count int64
	if err := tx.QueryRow(ctx, surveyCountQuery, tenantID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count surveys")
	}
	return count, nil
}

func (g *PgSurveyRepository) GetAll(ctx context.Context) ([]survey.Survey, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	return g.querySurveys(ctx, surveyFindQuery+" WHERE sv.tenant_id = $1 ORDER BY sv.title", tenantID)
}

func (g *PgSurveyRepository) GetPaginated(ctx context.Context, params *survey.FindParams) ([]survey.Survey, error) {
	if params == nil {
		params = &survey.FindParams{}
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"sv.tenant_id = $1"}
	args := []interface{}{tenantID}

	if params.Search != "" {
		where = append(where, "sv.title ILIKE $2")
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
		surveyFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY sv.title",
		repo.FormatLimitOffset(limit, offset),
	)
	return g.querySurveys(ctx, query, args...)
}

func (g *PgSurveyRepository) GetByID(ctx context.Context, id uint) (survey.Survey, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return survey.Survey{}, errors.Wrap(err, "failed to get tenant from context")
	}

	rows, err := g.querySurveys(ctx, surveyFindQuery+" WHERE sv.id = $1 AND sv.tenant_id = $2", id, tenantID)
	if err != nil {
		return survey.Survey{}, err
	}
	if len(rows) == 0 {
		return survey.Survey{}, survey.ErrNotFound
	}
	return rows[0], nil
}

func (g *PgSurveyRepository) Create(ctx context.Context, data survey.Survey) (survey.Survey, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return survey.Survey{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return survey.Survey{}, errors.Wrap(err, "failed to get transaction")
	}

	var id uint
	err = tx.QueryRow(
		ctx,
		surveyInsertQuery,
		tenantID,
		data.Title(),
		data.Description(),
		data.IsActive(),
	).Scan(&id)
	if err != nil {
		return survey.Survey{}, errors.Wrap(err, "failed to create survey")
	}

	return g.GetByID(ctx, id)
}

func (g *PgSurveyRepository) Update(ctx context.Context, data survey.Survey) (survey.Survey, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return survey.Survey{}, errors.Wrap(err, "failed to get tenant from context")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return survey.Survey{}, errors.Wrap(err, "failed to get transaction")
	}

	tag, err := tx.Exec(
		ctx,
		surveyUpdateQuery,
		data.Title(),
		data.Description(),
		data.IsActive(),
		data.ID(),
		tenantID,
	)
	if err != nil {
		return survey.Survey{}, errors.Wrap(err, "failed to update survey")
	}
	if tag.RowsAffected() == 0 {
		return survey.Survey{}, survey.ErrNotFound
	}

	return g.GetByID(ctx, data.ID())
}
