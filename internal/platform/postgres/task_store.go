package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owner ID doesn't exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			log.Warn("constraint violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("owner_id", task.OwnerID.String()))
			return mapped
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return mapped
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, description, priority, status, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	var priority, status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)

	return &task, nil
}

// GetOwnerName implements store.TaskStore.GetOwnerName
func (s *PostgresTaskStore) GetOwnerName(ctx context.Context, id uuid.UUID) (string, error) {
	query := `
		SELECT u.username
		FROM tasks t
		JOIN users u ON u.id = t.owner_id
		WHERE t.id = $1
	`

	var username string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrTaskNotFound
		}
		return "", MapError(err)
	}

	return username, nil
}

// Update implements store.TaskStore.Update
// The owner column is deliberately absent from the statement; ownership is
// immutable after creation. UpdatedAt is recomputed here, never taken from
// the caller. Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	updatedAt := time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, status = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		updatedAt,
		task.ID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected after task update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrUpdateFailed, err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
		return store.ErrTaskNotFound
	}

	task.UpdatedAt = updatedAt

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// Comments are removed by the ON DELETE CASCADE constraint on comments.task_id.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected after task delete",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return fmt.Errorf("%w: %v", store.ErrDeleteFailed, err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// orderColumns whitelists the sortable columns for List. Anything outside
// this map falls back to created_at.
var orderColumns = map[string]string{
	store.OrderByCreatedAt: "t.created_at",
	store.OrderByUpdatedAt: "t.updated_at",
	store.OrderByPriority:  "t.priority",
	store.OrderByStatus:    "t.status",
}

// List implements store.TaskStore.List
// Filters, title search, ordering, and pagination are all applied in SQL so
// the (owner_id, status), priority, and title indexes can serve the query.
func (s *PostgresTaskStore) List(ctx context.Context, params store.ListTasksParams) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var conditions []string
	var args []any

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if params.OwnerID != uuid.Nil {
		addCondition("t.owner_id = $%d", params.OwnerID)
	}
	if params.Status != "" {
		addCondition("t.status = $%d", string(params.Status))
	}
	if params.Priority != "" {
		addCondition("t.priority = $%d", string(params.Priority))
	}
	if params.TitleSearch != "" {
		addCondition("t.title ILIKE $%d", "%"+escapeLike(params.TitleSearch)+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT count(*) FROM tasks t %s`, where)

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	orderColumn, ok := orderColumns[params.OrderBy]
	if !ok {
		orderColumn = "t.created_at"
		params.Descending = true
	}
	direction := "ASC"
	if params.Descending {
		direction = "DESC"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.title, t.priority, t.status, u.username, t.created_at
		FROM tasks t
		JOIN users u ON u.id = t.owner_id
		%s
		ORDER BY %s %s, t.id
		LIMIT %d OFFSET %d
	`, where, orderColumn, direction, limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	page := &store.TaskPage{Total: total}
	for rows.Next() {
		var summary store.TaskSummary
		var priority, status string
		if err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&priority,
			&status,
			&summary.OwnerName,
			&summary.CreatedAt,
		); err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		summary.Priority = domain.Priority(priority)
		summary.Status = domain.Status(status)
		page.Tasks = append(page.Tasks, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return page, nil
}

// CountActiveByOwner implements store.TaskStore.CountActiveByOwner
func (s *PostgresTaskStore) CountActiveByOwner(ctx context.Context, ownerID, excludeID uuid.UUID) (int, error) {
	// Served by the (owner_id, status) composite index.
	query := `
		SELECT count(*)
		FROM tasks
		WHERE owner_id = $1 AND status <> $2 AND id <> $3
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, ownerID, domain.StatusDone, excludeID).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// AcquireOwnerLock implements store.TaskStore.AcquireOwnerLock
// The lock key is derived from the owner UUID; pg_advisory_xact_lock blocks
// until the lock is available and releases it at transaction end, so two
// concurrent same-owner quota checks can never interleave with their writes.
func (s *PostgresTaskStore) AcquireOwnerLock(ctx context.Context, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

	if _, err := s.db.ExecContext(ctx, query, ownerID.String()); err != nil {
		log.Error("failed to acquire owner advisory lock",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return MapError(err)
	}

	log.Debug("owner advisory lock acquired", slog.String("owner_id", ownerID.String()))
	return nil
}

// escapeLike escapes the LIKE metacharacters in a user-supplied search term.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
