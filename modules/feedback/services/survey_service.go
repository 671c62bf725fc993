package services

import (
	"context"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
	"github.com/fullcircle-hr/fullcircle/pkg/eventbus"
)

type SurveyService struct {
	repo      survey.Repository
	publisher eventbus.EventBus
}

func NewSurveyService(repo survey.Repository, publisher eventbus.EventBus) *SurveyService {
	return &SurveyService{repo: repo, publisher: publisher}
}

func (s *SurveyService) Count(ctx context.Context) (int64, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *SurveyService) GetPaginated(ctx context.Context, params *survey.FindParams) ([]survey.Survey, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]survey.Survey, error) {
		return s.repo.GetPaginated(txCtx, params)
	})
}

func (s *SurveyService) GetByID(ctx context.Context, id uint) (survey.Survey, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (survey.Survey, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *SurveyService) Create(ctx context.Context, data survey.Survey) (survey.Survey, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (survey.Survey, error) {
		return s.repo.Create(txCtx, data)
	})
}

func (s *SurveyService) Update(ctx context.Context, data survey.Survey) (survey.Survey, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (survey.Survey, error) {
		return s.repo.Update(txCtx, data)
	})
}

// Deactivate retires a survey from assignment. Existing assignment rows stay
// untouched for history.
func (s *SurveyService) Deactivate(ctx context.Context, id uint) (survey.Survey, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (survey.Survey, error) {
		sv, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return survey.Survey{}, err
		}
		return s.repo.Update(txCtx, sv.Deactivated())
	})
}
