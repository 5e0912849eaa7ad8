// Package main implements the entry point for the taskflow API server,
// a task tracking backend with per-user quotas and an administrative
// surface over all tasks.
package main

import (
	"context"
	"flag"
	"log"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"run a migration command (up, down, status) instead of serving",
	)
	flag.Parse()

	app, err := newApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if *migrateCmd != "" {
		if err := app.runMigrations(context.Background(), *migrateCmd); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	if err := app.migrateUp(context.Background()); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
