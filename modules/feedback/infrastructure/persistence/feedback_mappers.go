package persistence

import (
	"github.com/google/uuid"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/assignment"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/relationship"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/persistence/models"
)

func parseTenantID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func toDomainEmployee(row models.Employee) employee.Employee {
	return employee.Hydrate(
		row.ID,
		parseTenantID(row.TenantID),
		row.Code,
		row.FirstName,
		row.LastName,
		row.Email,
		row.Position,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainSubject(row models.Subject) subject.Subject {
	return subject.Hydrate(
		row.ID,
		parseTenantID(row.TenantID),
		row.EmployeeID,
		row.CredentialHash,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainEvaluator(row models.Evaluator) evaluator.Evaluator {
	return evaluator.Hydrate(
		row.ID,
		parseTenantID(row.TenantID),
		row.EmployeeID,
		row.CredentialHash,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainEdge(row models.RelationshipEdge) relationship.Edge {
	return relationship.Hydrate(
		row.ID,
		parseTenantID(row.TenantID),
		row.SubjectID,
		row.EvaluatorID,
		row.Label,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainSurvey(row models.Survey) survey.Survey {
	return survey.Hydrate(
		row.ID,
		parseTenantID(row.TenantID),
		row.Title,
		row.Description,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainAssignment(row models.Assignment) assignment.Assignment {
	return assignment.Hydrate(
		row.ID,
		parseTenantID(row.TenantID),
		row.EdgeID,
		row.SurveyID,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
