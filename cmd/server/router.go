package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hdhector/taskflow/internal/api"
	apiMiddleware "github.com/hdhector/taskflow/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	taskHandler := api.NewTaskHandler(
		app.taskService,
		app.commentService,
		app.userStore,
		app.logger,
	)
	adminHandler := api.NewAdminHandler(app.adminService, app.userStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Patch("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			r.Get("/tasks/{id}/comments", taskHandler.ListComments)
			r.Post("/tasks/{id}/comments", taskHandler.CreateComment)
		})
	})

	// Administrative surface, staff only
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/tasks", adminHandler.ListTasks)
		r.Get("/tasks/{id}", adminHandler.GetTask)
		r.Put("/tasks/{id}", adminHandler.UpdateTask)
		r.Post("/tasks/{id}/comments", adminHandler.CreateComment)
		r.Put("/tasks/{id}/comments/{commentID}", adminHandler.UpdateComment)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
