package dtos

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/fullcircle-hr/fullcircle/pkg/constants"
	"github.com/fullcircle-hr/fullcircle/pkg/serrors"
)

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func validate(dto interface{}) (map[string]string, bool) {
	err := constants.Validate.Struct(dto)
	if err == nil {
		return nil, true
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}, false
	}
	return serrors.ProcessValidatorErrors(errs), false
}

type CreateRelationshipsRequest struct {
	SubjectID      uint     `json:"subjectId" validate:"required"`
	EvaluatorCodes []string `json:"evaluatorCodes" validate:"required,min=1,dive,required"`
	Label          string   `json:"label" validate:"required,max=50"`
}

func (d *CreateRelationshipsRequest) Ok(ctx context.Context) (map[string]string, bool) {
	return validate(d)
}

type CreateEvaluatorRelationshipsRequest struct {
	EvaluatorID  uint     `json:"evaluatorId" validate:"required"`
	SubjectCodes []string `json:"subjectCodes" validate:"required,min=1,dive,required"`
	Label        string   `json:"label" validate:"required,max=50"`
}

func (d *CreateEvaluatorRelationshipsRequest) Ok(ctx context.Context) (map[string]string, bool) {
	return validate(d)
}

type EvaluatorLinkRequest struct {
	Code  string `json:"code" validate:"required"`
	Label string `json:"label" validate:"required,max=50"`
}

type SyncEvaluatorsRequest struct {
	Evaluators []EvaluatorLinkRequest `json:"evaluators" validate:"required,dive"`
}

func (d *SyncEvaluatorsRequest) Ok(ctx context.Context) (map[string]string, bool) {
	return validate(d)
}

type AssignmentRequest struct {
	EdgeIDs []uint `json:"relationshipIds" validate:"required,min=1"`
}

func (d *AssignmentRequest) Ok(ctx context.Context) (map[string]string, bool) {
	return validate(d)
}

type CreateEmployeeRequest struct {
	Code      string `json:"code" validate:"required,max=50"`
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Position  string `json:"position" validate:"max=255"`
}

func (d *CreateEmployeeRequest) Ok(ctx context.Context) (map[string]string, bool) {
	return validate(d)
}

type CreateSurveyRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
}

func (d *CreateSurveyRequest) Ok(ctx context.Context) (map[string]string, bool) {
	return validate(d)
}
