package main

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/hdhector/taskflow/db/migrations"
)

// migrateUp applies any pending migrations. Called on every server start so
// a fresh database is usable without a separate migration step.
func (app *application) migrateUp(ctx context.Context) error {
	return app.runMigrations(ctx, "up")
}

// runMigrations executes a goose command against the embedded migrations.
// Supported commands: up, down, status.
func (app *application) runMigrations(ctx context.Context, command string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, app.db, "."); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	case "down":
		if err := goose.DownContext(ctx, app.db, "."); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	case "status":
		if err := goose.StatusContext(ctx, app.db, "."); err != nil {
			return fmt.Errorf("failed to report migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	version, err := goose.GetDBVersionContext(ctx, app.db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	app.logger.Info("migrations complete",
		"command", command,
		"db_version", version)
	return nil
}
