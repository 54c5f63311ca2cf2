package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/taskforge/taskforge-api/internal/api"
	apimiddleware "github.com/taskforge/taskforge-api/internal/api/middleware"
	"github.com/taskforge/taskforge-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		&app.config.Auth,
		app.logger,
	)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryStore, app.logger)
	taskHandler := api.NewTaskHandler(app.taskStore, app.categoryStore, app.logger)

	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)
	loginLimiter := apimiddleware.NewLoginLimiter(
		app.config.Auth.LoginRateLimit,
		time.Duration(app.config.Auth.LoginRateWindowSeconds)*time.Second,
	)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.With(loginLimiter.Limit).Post("/auth/login", authHandler.Login)
		r.Get("/auth/refresh", authHandler.Refresh)
		r.Post("/auth/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Account endpoints (the authenticated user's own record)
			r.Get("/user", userHandler.GetProfile)
			r.Put("/user", userHandler.UpdateProfile)
			r.Delete("/user", userHandler.DeleteAccount)

			// Category endpoints
			r.Get("/categories", categoryHandler.List)
			r.Post("/categories", categoryHandler.Create)
			r.Put("/categories/{id}", categoryHandler.Update)
			r.Delete("/categories/{id}", categoryHandler.Delete)

			// Task endpoints
			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithMessage(w, r, http.StatusOK, "OK")
	})

	// Unknown routes still get the uniform envelope
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Page not found")
	})

	return r
}
