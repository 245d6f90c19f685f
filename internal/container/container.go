package container

import (
	app "ui-assessment-bot/internal/application"
	"ui-assessment-bot/internal/domain/port"
)

type Container struct {
	SessionService    *app.SessionService
	AssessmentService *app.AssessmentService
}

func New(
	sessionRepo port.SessionRepository,
	detector port.Detector,
	annotator port.Annotator,
	scratch port.ScratchStore,
	renderer port.DocumentRenderer,
) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	assessmentService := app.NewAssessmentService(sessionService, detector, annotator, scratch, renderer)

	return &Container{
		SessionService:    sessionService,
		AssessmentService: assessmentService,
	}
}
