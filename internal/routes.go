package internal

import (
	"net/http"

	"calmd/internal/controllers"
	"calmd/internal/providers"
)

func InitRoutes(mood *controllers.MoodController, patterns *controllers.PatternController, sessions *controllers.SessionController, assessments *controllers.AssessmentController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/mood", http.HandlerFunc(mood.Record))
	routers.Get("/streak", http.HandlerFunc(mood.Streak))
	routers.Get("/mood/calendar", http.HandlerFunc(mood.Calendar))

	routers.Get("/patterns", http.HandlerFunc(patterns.List))

	routers.Get("/session", http.HandlerFunc(sessions.State))
	routers.Post("/session/select", http.HandlerFunc(sessions.Select))
	routers.Post("/session/start", http.HandlerFunc(sessions.Start))
	routers.Post("/session/pause", http.HandlerFunc(sessions.Pause))
	routers.Post("/session/reset", http.HandlerFunc(sessions.Reset))

	routers.Get("/assessment/quiz", http.HandlerFunc(assessments.Quiz))
	routers.Post("/assessment", http.HandlerFunc(assessments.Submit))
	routers.Get("/assessment/history", http.HandlerFunc(assessments.History))
	return routers
}
