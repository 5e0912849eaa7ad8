package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/store"
)

// PostgresCommentStore implements the store.CommentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a new PostgreSQL implementation of the
// CommentStore interface. If logger is nil, a default logger will be used.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

// Ensure PostgresCommentStore implements store.CommentStore interface
var _ store.CommentStore = (*PostgresCommentStore)(nil)

// WithTx implements store.CommentStore.WithTx
func (s *PostgresCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &PostgresCommentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CommentStore.Create
// Returns store.ErrInvalidEntity if the task or author doesn't exist
// (foreign key violation).
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return err
	}

	query := `
		INSERT INTO comments (id, task_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	)

	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			log.Warn("constraint violation during comment creation",
				slog.String("error", err.Error()),
				slog.String("comment_id", comment.ID.String()),
				slog.String("task_id", comment.TaskID.String()))
			return mapped
		}

		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()),
			slog.String("task_id", comment.TaskID.String()))
		return mapped
	}

	log.Info("comment created successfully",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", comment.TaskID.String()),
		slog.String("author_id", comment.AuthorID.String()))
	return nil
}

// GetByID implements store.CommentStore.GetByID
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `
		SELECT id, task_id, author_id, content, created_at
		FROM comments
		WHERE id = $1
	`

	var comment domain.Comment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		return nil, MapError(err)
	}

	return &comment, nil
}

// ListByTask implements store.CommentStore.ListByTask
// Comments come back oldest first; the (task_id, created_at) index serves
// both the filter and the ordering.
func (s *PostgresCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]store.CommentView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.task_id, c.author_id, c.content, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.task_id = $1
		ORDER BY c.created_at ASC, c.id
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var views []store.CommentView
	for rows.Next() {
		var view store.CommentView
		if err := rows.Scan(
			&view.Comment.ID,
			&view.Comment.TaskID,
			&view.Comment.AuthorID,
			&view.Comment.Content,
			&view.Comment.CreatedAt,
			&view.AuthorName,
		); err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return views, nil
}

// UpdateContent implements store.CommentStore.UpdateContent
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if content == "" {
		return domain.ErrCommentContentEmpty
	}

	query := `
		UPDATE comments
		SET content = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, content, id)
	if err != nil {
		log.Error("failed to update comment content",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUpdateFailed, err)
	}

	if rowsAffected == 0 {
		log.Debug("comment not found for update", slog.String("comment_id", id.String()))
		return store.ErrCommentNotFound
	}

	log.Info("comment content updated", slog.String("comment_id", id.String()))
	return nil
}

// AuthorName implements store.CommentStore.AuthorName
func (s *PostgresCommentStore) AuthorName(ctx context.Context, id uuid.UUID) (string, error) {
	query := `
		SELECT u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`

	var username string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrCommentNotFound
		}
		return "", MapError(err)
	}

	return username, nil
}
