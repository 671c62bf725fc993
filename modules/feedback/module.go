package feedback

import (
	"embed"

	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/credentials"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/notifications"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/infrastructure/persistence"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/presentation/controllers"
	"github.com/fullcircle-hr/fullcircle/modules/feedback/services"
	"github.com/fullcircle-hr/fullcircle/pkg/application"
	"github.com/fullcircle-hr/fullcircle/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/feedback-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()
	app.Migrations().RegisterSchema(&migrationFiles)

	employeeRepo := persistence.NewEmployeeRepository()
	subjectRepo := persistence.NewSubjectRepository()
	evaluatorRepo := persistence.NewEvaluatorRepository()
	edgeRepo := persistence.NewRelationshipRepository()
	assignmentRepo := persistence.NewAssignmentRepository()
	surveyRepo := persistence.NewSurveyRepository()

	generator := credentials.NewGenerator(conf.Credential.Secret, conf.Credential.Length)
	dispatcher := services.NewNotificationDispatcher(
		notifications.NewLogSender(app.Logger()),
		generator,
		app.Logger(),
		conf.Notification.QueueSize,
		conf.Notification.DigestMaxItems,
		conf.Notification.DashboardURL,
	)
	resolver := services.NewIdentityResolver(employeeRepo, subjectRepo, evaluatorRepo, generator)

	app.RegisterServices(
		resolver,
		dispatcher,
		services.NewRelationshipService(resolver, subjectRepo, evaluatorRepo, edgeRepo, app.EventPublisher()),
		services.NewAssignmentService(
			surveyRepo, edgeRepo, assignmentRepo,
			subjectRepo, evaluatorRepo, employeeRepo,
			app.EventPublisher(), dispatcher,
		),
		services.NewImportService(
			employeeRepo, subjectRepo, evaluatorRepo,
			edgeRepo, assignmentRepo, surveyRepo,
			generator, app.EventPublisher(), dispatcher,
		),
		services.NewEmployeeService(employeeRepo, subjectRepo, evaluatorRepo, edgeRepo, app.EventPublisher()),
		services.NewSurveyService(surveyRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewFeedbackAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "feedback"
}
