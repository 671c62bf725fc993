package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/assignment"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/employee"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/evaluator"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/relationship"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/subject"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/domain/aggregates/survey"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/presentation/controllers/dtos"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/services"
	"github.com/fullcircle-hr/fullcircle/pkg/application"
	"github.com/fullcircle-hr/fullcircle/pkg/composables"
	"github.com/fullcircle-hr/fullcircle/pkg/configuration"
)

type FeedbackAPIController struct {
	app           application.Application
	relationships *services.RelationshipService
	assignments   *services.AssignmentService
	imports       *services.ImportService
	employees     *services.EmployeeService
	surveys       *services.SurveyService
	basePath      string
}

func NewFeedbackAPIController(app application.Application) application.Controller {
	return &FeedbackAPIController{
		app:           app,
		relationships: app.Service(services.RelationshipService{}).(*services.RelationshipService),
		assignments:   app.Service(services.AssignmentService{}).(*services.AssignmentService),
		imports:       app.Service(services.ImportService{}).(*services.ImportService),
		employees:     app.Service(services.EmployeeService{}).(*services.EmployeeService),
		surveys:       app.Service(services.SurveyService{}).(*services.SurveyService),
		basePath:      "/feedback/api",
	}
}

func (c *FeedbackAPIController) Key() string {
	return c.basePath
}

func (c *FeedbackAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()

	router.HandleFunc("/relationships", c.CreateRelationships).Methods(http.MethodPost)
	router.HandleFunc("/relationships/evaluator", c.CreateEvaluatorRelationships).Methods(http.MethodPost)
	router.HandleFunc("/subjects/{id:[0-9]+}/evaluators", c.SyncEvaluators).Methods(http.MethodPut)

	router.HandleFunc("/surveys/{id:[0-9]+}/assignments", c.AssignSurvey).Methods(http.MethodPost)
	router.HandleFunc("/surveys/{id:[0-9]+}/assignments", c.UnassignSurvey).Methods(http.MethodDelete)
	router.HandleFunc("/surveys/{id:[0-9]+}/assignments/import", c.ImportAssignments).Methods(http.MethodPost)

	router.HandleFunc("/employees", c.ListEmployees).Methods(http.MethodGet)
	router.HandleFunc("/employees", c.CreateEmployee).Methods(http.MethodPost)
	router.HandleFunc("/employees/{id:[0-9]+}", c.DeactivateEmployee).Methods(http.MethodDelete)

	router.HandleFunc("/surveys", c.ListSurveys).Methods(http.MethodGet)
	router.HandleFunc("/surveys", c.CreateSurvey).Methods(http.MethodPost)
	router.HandleFunc("/surveys/{id:[0-9]+}", c.DeactivateSurvey).Methods(http.MethodDelete)
}

func pathID(r *http.Request) (uint, bool) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (c *FeedbackAPIController) CreateRelationships(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateRelationshipsRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "FEEDBACK_VALIDATION_FAILED", firstValidationMessage(errs))
		return
	}

	result, err := c.relationships.CreateRelationships(r.Context(), dto.SubjectID, dto.EvaluatorCodes, dto.Label)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, relationshipResultJSON(result))
}

func (c *FeedbackAPIController) CreateEvaluatorRelationships(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateEvaluatorRelationshipsRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "FEEDBACK_VALIDATION_FAILED", firstValidationMessage(errs))
		return
	}

	result, err := c.relationships.CreateRelationshipsForEvaluator(r.Context(), dto.EvaluatorID, dto.SubjectCodes, dto.Label)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, relationshipResultJSON(result))
}

func (c *FeedbackAPIController) SyncEvaluators(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := pathID(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_ID", "invalid subject id")
		return
	}

	var dto dtos.SyncEvaluatorsRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "FEEDBACK_VALIDATION_FAILED", firstValidationMessage(errs))
		return
	}

	links := make([]services.EvaluatorLink, 0, len(dto.Evaluators))
	for _, link := range dto.Evaluators {
		links = append(links, services.EvaluatorLink{Code: link.Code, Label: link.Label})
	}
	result, err := c.relationships.SyncEvaluators(r.Context(), subjectID, links)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, relationshipResultJSON(result))
}

func (c *FeedbackAPIController) AssignSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := pathID(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_ID", "invalid survey id")
		return
	}

	var dto dtos.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "FEEDBACK_VALIDATION_FAILED", firstValidationMessage(errs))
		return
	}

	result, err := c.assignments.Assign(r.Context(), surveyID, dto.EdgeIDs)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignmentResultJSON(result))
}

func (c *FeedbackAPIController) UnassignSurvey(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := pathID(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_ID", "invalid survey id")
		return
	}

	var dto dtos.AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "FEEDBACK_VALIDATION_FAILED", firstValidationMessage(errs))
		return
	}

	result, err := c.assignments.Unassign(r.Context(), surveyID, dto.EdgeIDs)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignmentResultJSON(result))
}

func (c *FeedbackAPIController) ImportAssignments(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := pathID(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_ID", "invalid survey id")
		return
	}

	conf := configuration.Use()
	if err := r.ParseMultipartForm(conf.MaxUploadSize); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_UPLOAD", "invalid multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_MISSING_FILE", "missing file field")
		return
	}
	defer file.Close()

	var rows []services.ImportRow
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx":
		rows, err = services.RowsFromWorkbook(file)
	case ".csv", "":
		rows, err = services.RowsFromCSV(file)
	default:
		writeAPIError(w, r, http.StatusUnsupportedMediaType, "FEEDBACK_UNSUPPORTED_FORMAT", "expected a .csv or .xlsx file")
		return
	}
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_UNPARSABLE_FILE", err.Error())
		return
	}
	if len(rows) == 0 {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_EMPTY_FILE", "file contains no data rows")
		return
	}

	result, err := c.imports.ImportAssignments(r.Context(), surveyID, rows)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignmentResultJSON(result))
}

func (c *FeedbackAPIController) ListEmployees(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	params := &employee.FindParams{
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  conf.PageSize,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			params.Limit = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			params.Offset = parsed
		}
	}

	items, err := c.employees.GetPaginated(r.Context(), params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	total, err := c.employees.Count(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, e := range items {
		out = append(out, employeeJSON(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *FeedbackAPIController) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "FEEDBACK_VALIDATION_FAILED", firstValidationMessage(errs))
		return
	}

	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	created, err := c.employees.Create(r.Context(), employee.New(
		tenantID, dto.Code, dto.FirstName, dto.LastName, dto.Email, dto.Position,
	))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeJSON(created))
}

func (c *FeedbackAPIController) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_ID", "invalid employee id")
		return
	}
	updated, err := c.employees.Deactivate(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employeeJSON(updated))
}

func (c *FeedbackAPIController) ListSurveys(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	params := &survey.FindParams{
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  conf.PageSize,
	}
	items, err := c.surveys.GetPaginated(r.Context(), params)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, s := range items {
		out = append(out, surveyJSON(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *FeedbackAPIController) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "FEEDBACK_VALIDATION_FAILED", firstValidationMessage(errs))
		return
	}

	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	created, err := c.surveys.Create(r.Context(), survey.New(tenantID, dto.Title, dto.Description))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, surveyJSON(created))
}

func (c *FeedbackAPIController) DeactivateSurvey(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_INVALID_ID", "invalid survey id")
		return
	}
	updated, err := c.surveys.Deactivate(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, surveyJSON(updated))
}

func (c *FeedbackAPIController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, survey.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "FEEDBACK_SURVEY_NOT_FOUND", "survey not found")
	case errors.Is(err, subject.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "FEEDBACK_SUBJECT_NOT_FOUND", "subject not found")
	case errors.Is(err, evaluator.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "FEEDBACK_EVALUATOR_NOT_FOUND", "evaluator not found")
	case errors.Is(err, employee.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "FEEDBACK_EMPLOYEE_NOT_FOUND", "employee not found")
	case errors.Is(err, employee.ErrCodeTaken):
		writeAPIError(w, r, http.StatusConflict, "FEEDBACK_CODE_TAKEN", "employee code already exists")
	case errors.Is(err, relationship.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "FEEDBACK_RELATIONSHIP_NOT_FOUND", "relationship not found")
	case errors.Is(err, composables.ErrNoTenant):
		writeAPIError(w, r, http.StatusBadRequest, "FEEDBACK_MISSING_TENANT", "missing tenant")
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("feedback api error")
		writeAPIError(w, r, http.StatusInternalServerError, "FEEDBACK_INTERNAL", "internal error")
	}
}

func relationshipResultJSON(result *relationship.Result) map[string]any {
	return map[string]any{
		"successfulConnections": result.SuccessfulConnections,
		"failedEmployeeIds":     result.FailedEmployeeIDs,
		"duplicateConnections":  result.DuplicateConnections,
		"warnings":              result.Warnings,
	}
}

func assignmentResultJSON(result *assignment.Result) map[string]any {
	return map[string]any{
		"success":         result.Success,
		"assignedCount":   result.AssignedCount,
		"unassignedCount": result.UnassignedCount,
		"errors":          result.Errors,
	}
}

func employeeJSON(e employee.Employee) map[string]any {
	return map[string]any{
		"id":        e.ID(),
		"code":      e.Code(),
		"firstName": e.FirstName(),
		"lastName":  e.LastName(),
		"email":     e.Email(),
		"position":  e.Position(),
		"isActive":  e.IsActive(),
	}
}

func surveyJSON(s survey.Survey) map[string]any {
	return map[string]any{
		"id":          s.ID(),
		"title":       s.Title(),
		"description": s.Description(),
		"isActive":    s.IsActive(),
	}
}
