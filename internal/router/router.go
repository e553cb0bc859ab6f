package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/focusflow/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Account routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.GET("/api/v1/auth/verify", handlers.Auth.VerifyEmail)
	r.POST("/api/v1/auth/password-reset", handlers.Auth.RequestPasswordReset)
	r.POST("/api/v1/auth/password-reset/confirm", handlers.Auth.ConfirmPasswordReset)
	r.GET("/api/v1/profile/email/confirm", handlers.Profile.ConfirmEmailChange)

	// Protected routes
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.Get))
	r.PUT("/api/v1/profile/name", authMiddleware(handlers.Profile.UpdateName))
	r.PUT("/api/v1/profile/email", authMiddleware(handlers.Profile.RequestEmailChange))
	r.PUT("/api/v1/profile/password", authMiddleware(handlers.Profile.UpdatePassword))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.POST("/api/v1/tasks/detailed", authMiddleware(handlers.Task.CreateDetailed))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))
	r.POST("/api/v1/tasks/{id}/subitems/{index}/toggle", authMiddleware(handlers.Task.ToggleSubItem))
	r.POST("/api/v1/tasks/{id}/complete", authMiddleware(handlers.Task.Complete))

	return r
}
