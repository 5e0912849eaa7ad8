package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/authz"
	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/store"
)

// AdminTaskDetail is the administrative projection: the full task detail
// plus the set of fields the acting staff user may change. An empty set
// means the detail is fully read-only for this actor.
type AdminTaskDetail struct {
	TaskDetail
	WritableFields []string
}

// AdminService exposes the administrative surface over tasks and comments.
//
/// Its policy deliberately differs from the resource API: any staff actor may
// open any task's detail view, but writes are soft-denied by coercing every
// field to read-only unless the actor owns the task or is a superuser.
// Client-supplied values for read-only fields are discarded, not rejected.
type AdminService interface {
	// ListTasks returns one page of all tasks regardless of ownership.
	// Requires a staff actor.
	ListTasks(ctx context.Context, actor *domain.User, params store.ListTasksParams) (*store.TaskPage, error)

	// GetTask returns the detail for any task together with the actor's
	// writable-field set. Requires a staff actor.
	GetTask(ctx context.Context, actor *domain.User, id uuid.UUID) (*AdminTaskDetail, error)

	// UpdateTask applies only the fields present in the actor's writable
	// set; everything else silently keeps its stored value. The quota rule
	// applies as everywhere else. Requires a staff actor.
	UpdateTask(ctx context.Context, actor *domain.User, id uuid.UUID, input UpdateTaskInput) (*AdminTaskDetail, error)

	// CreateComment attaches an inline comment, author forced to the actor.
	// Requires a staff actor; task ownership is not required.
	CreateComment(ctx context.Context, actor *domain.User, taskID uuid.UUID, content string) (*store.CommentView, error)

	// UpdateComment edits a comment's content inline. Allowed only when
	// "content" is in the actor's writable comment-field set for the parent
	// task; author and task references are immutable.
	UpdateComment(ctx context.Context, actor *domain.User, taskID, commentID uuid.UUID, content string) (*store.CommentView, error)
}

// adminService is the production AdminService.
type adminService struct {
	db       store.TxRunner
	tasks    store.TaskStore
	comments store.CommentStore
	logger   *slog.Logger

	runInTx func(ctx context.Context, db store.TxRunner, fn store.TxFn) error
}

// Ensure adminService implements AdminService interface
var _ AdminService = (*adminService)(nil)

// NewAdminService creates a new AdminService.
// If logger is nil, a default logger will be used.
func NewAdminService(
	db store.TxRunner,
	tasks store.TaskStore,
	comments store.CommentStore,
	logger *slog.Logger,
) AdminService {
	if logger == nil {
		logger = slog.Default()
	}

	return &adminService{
		db:       db,
		tasks:    tasks,
		comments: comments,
		logger:   logger.With(slog.String("component", "admin_service")),
		runInTx:  store.RunInTransaction,
	}
}

// ListTasks implements AdminService.ListTasks
func (s *adminService) ListTasks(ctx context.Context, actor *domain.User, params store.ListTasksParams) (*store.TaskPage, error) {
	if !authz.CanOpenAdminDetail(actor) {
		return nil, ErrForbidden
	}

	// Staff-wide visibility: no owner filter.
	params.OwnerID = uuid.Nil

	return s.tasks.List(ctx, params)
}

// GetTask implements AdminService.GetTask
func (s *adminService) GetTask(ctx context.Context, actor *domain.User, id uuid.UUID) (*AdminTaskDetail, error) {
	if !authz.CanOpenAdminDetail(actor) {
		return nil, ErrForbidden
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildAdminDetail(ctx, actor, task)
}

// UpdateTask implements AdminService.UpdateTask
func (s *adminService) UpdateTask(ctx context.Context, actor *domain.User, id uuid.UUID, input UpdateTaskInput) (*AdminTaskDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !authz.CanOpenAdminDetail(actor) {
		return nil, ErrForbidden
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input = restrictToWritable(actor, task, input)

	if input == (UpdateTaskInput{}) {
		// Nothing writable for this actor; return the stored state
		// untouched. This is the soft-deny branch, not an error.
		log.Debug("admin update carried no writable fields",
			slog.String("task_id", id.String()),
			slog.String("actor_id", actor.ID.String()))
		return s.buildAdminDetail(ctx, actor, task)
	}

	applyUpdate(task, input)
	if err := task.Validate(); err != nil {
		return nil, err
	}

	err = s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		// The quota belongs to the task's owner, not to the staff actor
		// performing the edit.
		if err := checkQuota(ctx, txTasks, task.OwnerID, task.Status, task.ID); err != nil {
			return err
		}

		return txTasks.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("task updated via admin surface",
		slog.String("task_id", task.ID.String()),
		slog.String("actor_id", actor.ID.String()))

	return s.buildAdminDetail(ctx, actor, task)
}

// CreateComment implements AdminService.CreateComment
func (s *adminService) CreateComment(ctx context.Context, actor *domain.User, taskID uuid.UUID, content string) (*store.CommentView, error) {
	if !authz.CanOpenAdminDetail(actor) {
		return nil, ErrForbidden
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(task.ID, actor.ID, content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return &store.CommentView{
		Comment:    *comment,
		AuthorName: actor.Username,
	}, nil
}

// UpdateComment implements AdminService.UpdateComment
func (s *adminService) UpdateComment(ctx context.Context, actor *domain.User, taskID, commentID uuid.UUID, content string) (*store.CommentView, error) {
	if !authz.CanOpenAdminDetail(actor) {
		return nil, ErrForbidden
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	writable := authz.WritableCommentFields(actor, task)
	if !contains(writable, "content") {
		return nil, ErrForbidden
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.TaskID != task.ID {
		return nil, store.ErrCommentNotFound
	}

	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	comment.Content = content

	authorName, err := s.comments.AuthorName(ctx, commentID)
	if err != nil {
		return nil, err
	}

	return &store.CommentView{
		Comment:    *comment,
		AuthorName: authorName,
	}, nil
}

// buildAdminDetail assembles the admin projection for a task.
func (s *adminService) buildAdminDetail(ctx context.Context, actor *domain.User, task *domain.Task) (*AdminTaskDetail, error) {
	ownerName, err := s.tasks.GetOwnerName(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	return &AdminTaskDetail{
		TaskDetail: TaskDetail{
			Task:      *task,
			OwnerName: ownerName,
			Comments:  comments,
		},
		WritableFields: authz.WritableFields(actor, task),
	}, nil
}

// restrictToWritable drops every input field outside the actor's writable
// set. For an owner or superuser this is the identity; for everyone else it
// empties the input.
func restrictToWritable(actor *domain.User, task *domain.Task, input UpdateTaskInput) UpdateTaskInput {
	var restricted UpdateTaskInput
	if authz.FieldWritable(actor, task, "title") {
		restricted.Title = input.Title
	}
	if authz.FieldWritable(actor, task, "description") {
		restricted.Description = input.Description
	}
	if authz.FieldWritable(actor, task, "priority") {
		restricted.Priority = input.Priority
	}
	if authz.FieldWritable(actor, task, "status") {
		restricted.Status = input.Status
	}
	return restricted
}

func contains(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
