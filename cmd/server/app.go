package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hdhector/taskflow/internal/config"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/platform/postgres"
	"github.com/hdhector/taskflow/internal/service"
	"github.com/hdhector/taskflow/internal/service/auth"
	"github.com/hdhector/taskflow/internal/store"
)

// application holds the shared dependencies of the server: configuration,
// logger, database, stores and services. Handlers are created from it when
// the router is set up.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	taskStore    store.TaskStore
	commentStore store.CommentStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	taskService      service.TaskService
	commentService   service.CommentService
	adminService     service.AdminService
}

// newApplication loads configuration and wires all application components.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	commentStore := postgres.NewPostgresCommentStore(db, appLogger)

	app := &application{
		config:           cfg,
		logger:           appLogger,
		db:               db,
		userStore:        userStore,
		taskStore:        taskStore,
		commentStore:     commentStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		taskService:      service.NewTaskService(db, taskStore, commentStore, appLogger),
		commentService:   service.NewCommentService(taskStore, commentStore, appLogger),
		adminService:     service.NewAdminService(db, taskStore, commentStore, appLogger),
	}

	return app, nil
}

// cleanup releases application resources. Safe to call more than once.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
		app.db = nil
	}
}
