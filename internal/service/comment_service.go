package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/authz"
	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/store"
)

// CommentService exposes the comment sub-resource of tasks.
type CommentService interface {
	// ListByTask returns the task's comments ordered by creation time
	// ascending, with author usernames. Requires read access to the task.
	ListByTask(ctx context.Context, actor *domain.User, taskID uuid.UUID) ([]store.CommentView, error)

	// Create attaches a comment to the task. Requires read access only,
	// not ownership. The author is forced to the actor; client-supplied
	// author or task values are never honored.
	Create(ctx context.Context, actor *domain.User, taskID uuid.UUID, content string) (*store.CommentView, error)
}

// commentService is the production CommentService.
type commentService struct {
	tasks    store.TaskStore
	comments store.CommentStore
	logger   *slog.Logger
}

// Ensure commentService implements CommentService interface
var _ CommentService = (*commentService)(nil)

// NewCommentService creates a new CommentService.
// If logger is nil, a default logger will be used.
func NewCommentService(
	tasks store.TaskStore,
	comments store.CommentStore,
	logger *slog.Logger,
) CommentService {
	if logger == nil {
		logger = slog.Default()
	}

	return &commentService{
		tasks:    tasks,
		comments: comments,
		logger:   logger.With(slog.String("component", "comment_service")),
	}
}

// ListByTask implements CommentService.ListByTask
func (s *commentService) ListByTask(ctx context.Context, actor *domain.User, taskID uuid.UUID) ([]store.CommentView, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !authz.CanRead(actor, task) {
		return nil, ErrForbidden
	}

	return s.comments.ListByTask(ctx, taskID)
}

// Create implements CommentService.Create
func (s *commentService) Create(ctx context.Context, actor *domain.User, taskID uuid.UUID, content string) (*store.CommentView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !authz.CanComment(actor, task) {
		return nil, ErrForbidden
	}

	comment, err := domain.NewComment(task.ID, actor.ID, content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	log.Info("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", task.ID.String()),
		slog.String("author_id", actor.ID.String()))

	return &store.CommentView{
		Comment:    *comment,
		AuthorName: actor.Username,
	}, nil
}
