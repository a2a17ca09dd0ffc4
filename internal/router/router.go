package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/peerassist/backend/api/handler"
)

type Handlers struct {
	Auth        *apiHandler.AuthHandler
	Profile     *apiHandler.ProfileHandler
	Task        *apiHandler.TaskHandler
	Application *apiHandler.ApplicationHandler
	Completion  *apiHandler.CompletionHandler
	Health      *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/signup", handlers.Auth.Signup)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.POST("/api/v1/auth/forgot-password", handlers.Auth.ForgotPassword)
	r.POST("/api/v1/auth/reset-password", handlers.Auth.ResetPassword)

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.PostTask))
	r.GET("/api/v1/tasks/feed", authMiddleware(handlers.Task.Feed))
	r.GET("/api/v1/tasks/applied", authMiddleware(handlers.Task.Applied))
	r.GET("/api/v1/tasks/scheduled", authMiddleware(handlers.Task.Scheduled))
	r.GET("/api/v1/tasks/created", authMiddleware(handlers.Task.Created))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))

	r.POST("/api/v1/tasks/{id}/apply", authMiddleware(handlers.Application.Apply))
	r.POST("/api/v1/tasks/{id}/accept/{applicant}", authMiddleware(handlers.Application.Accept))

	r.POST("/api/v1/tasks/{id}/end", authMiddleware(handlers.Completion.RequestCompletion))
	r.POST("/api/v1/tasks/validate-completion", authMiddleware(handlers.Completion.ValidateCompletion))

	return r
}
