package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hdhector/taskflow/internal/domain"
)

// CommentView is a comment joined with its author's username for display.
type CommentView struct {
	Comment    domain.Comment
	AuthorName string
}

// CommentStore defines the interface for comment data persistence.
type CommentStore interface {
	// Create saves a new comment to the store.
	// Returns validation errors from the domain Comment if data is invalid.
	// Returns ErrInvalidEntity if the task or author does not exist
	// (foreign key violation).
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its unique ID.
	// Returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)

	// ListByTask returns all comments on the given task joined with author
	// usernames, ordered by creation time ascending.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]CommentView, error)

	// UpdateContent modifies an existing comment's content. Only the
	// administrative surface may edit comments; task and author references
	// are never updated. Returns ErrCommentNotFound if the comment does
	// not exist.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error

	// AuthorName returns the username of the comment's author.
	// Returns ErrCommentNotFound if the comment does not exist.
	AuthorName(ctx context.Context, id uuid.UUID) (string, error)

	// WithTx returns a new CommentStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CommentStore
}
