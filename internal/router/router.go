package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/edulane/edulane-api/internal/config"
	"github.com/edulane/edulane-api/internal/handler"
	"github.com/edulane/edulane-api/internal/middleware"
	"github.com/edulane/edulane-api/internal/observability"
	"github.com/edulane/edulane-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	LeaderboardHandler *handler.LeaderboardHandler
	QuizHandler        *handler.QuizHandler
	SubmissionHandler  *handler.SubmissionHandler
	ProgressHandler    *handler.ProgressHandler
	BadgeHandler       *handler.BadgeHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	studentOnly := middleware.RequireRole(service.RoleStudent)
	teacherOnly := middleware.RequireRole(service.RoleTeacher)

	if deps.LeaderboardHandler != nil {
		leaderboard := api.Group("/leaderboard", jwtMiddleware)
		deps.LeaderboardHandler.Register(leaderboard, studentOnly)
	}

	if deps.QuizHandler != nil {
		quizzes := api.Group("/quizzes", jwtMiddleware, middleware.RateLimit("quizzes", 30, time.Minute))
		deps.QuizHandler.Register(quizzes, studentOnly)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions, teacherOnly, studentOnly)
	}

	if deps.ProgressHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.ProgressHandler.Register(courses, studentOnly)
	}

	if deps.BadgeHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.BadgeHandler.Register(students)
	}
}
