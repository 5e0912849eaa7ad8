// Package main implements the database seeder. It fills a development
// database with a handful of users, a spread of tasks across priorities and
// statuses, and comment threads on most of them.
//
// All seeded users share the password printed at the end of the run.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver

	"github.com/hdhector/taskflow/internal/config"
	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/platform/postgres"
	"github.com/hdhector/taskflow/internal/store"
)

const (
	seedUsers        = 5
	seedTasks        = 20
	seedPassword     = "demo1234"
	commentedTaskPct = 75
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	if err := seed(ctx, db, cfg, appLogger); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Printf("Seeded %d users (password %q) and %d tasks\n", seedUsers, seedPassword, seedTasks)
}

// seed populates the database through the same stores the server uses, so
// hashing and validation behave identically to production writes.
func seed(ctx context.Context, db *sql.DB, cfg *config.Config, appLogger *slog.Logger) error {
	faker := gofakeit.New(0)

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	commentStore := postgres.NewPostgresCommentStore(db, appLogger)

	users, err := seedUserAccounts(ctx, userStore, faker)
	if err != nil {
		return err
	}

	tasks, err := seedTaskBoard(ctx, taskStore, faker, users)
	if err != nil {
		return err
	}

	return seedCommentThreads(ctx, commentStore, faker, users, tasks)
}

// seedUserAccounts creates the demo users. The first user is staff and the
// second a superuser, so both admin policies can be exercised right away.
func seedUserAccounts(
	ctx context.Context,
	userStore store.UserStore,
	faker *gofakeit.Faker,
) ([]*domain.User, error) {
	users := make([]*domain.User, 0, seedUsers)

	for i := 0; i < seedUsers; i++ {
		username := fmt.Sprintf("%s%d", faker.Username(), i)
		email := fmt.Sprintf("%s@example.com", username)

		user, err := domain.NewUser(username, email, seedPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to build user %q: %w", username, err)
		}

		switch i {
		case 0:
			user.IsStaff = true
		case 1:
			user.IsStaff = true
			user.IsSuperuser = true
		}

		if err := userStore.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user %q: %w", username, err)
		}

		users = append(users, user)
	}

	return users, nil
}

// seedTaskBoard spreads tasks across the users with a mix of priorities and
// statuses.
func seedTaskBoard(
	ctx context.Context,
	taskStore store.TaskStore,
	faker *gofakeit.Faker,
	users []*domain.User,
) ([]*domain.Task, error) {
	priorities := []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh}
	statuses := []domain.Status{domain.StatusPending, domain.StatusInProgress, domain.StatusDone}

	tasks := make([]*domain.Task, 0, seedTasks)

	for i := 0; i < seedTasks; i++ {
		owner := users[i%len(users)]

		task, err := domain.NewTask(
			owner.ID,
			faker.Sentence(4),
			faker.Paragraph(1, 2, 8, " "),
			priorities[rand.Intn(len(priorities))],
			statuses[rand.Intn(len(statuses))],
		)
		if err != nil {
			return nil, fmt.Errorf("failed to build task: %w", err)
		}

		if err := taskStore.Create(ctx, task); err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}

// seedCommentThreads attaches one to three comments to most of the tasks,
// authored by random users.
func seedCommentThreads(
	ctx context.Context,
	commentStore store.CommentStore,
	faker *gofakeit.Faker,
	users []*domain.User,
	tasks []*domain.Task,
) error {
	for _, task := range tasks {
		if rand.Intn(100) >= commentedTaskPct {
			continue
		}

		for n := 1 + rand.Intn(3); n > 0; n-- {
			author := users[rand.Intn(len(users))]

			comment, err := domain.NewComment(task.ID, author.ID, faker.Sentence(8))
			if err != nil {
				return fmt.Errorf("failed to build comment: %w", err)
			}

			if err := commentStore.Create(ctx, comment); err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
		}
	}

	return nil
}
