package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/authz"
	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/store"
)

// CreateTaskInput carries the client-supplied fields for a new task.
// Owner is never part of the input; it is forced to the acting user.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	Status      domain.Status
}

// UpdateTaskInput carries a full or partial update. Nil fields are left
// unchanged. There is deliberately no owner field: ownership never changes.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	Status      *domain.Status
}

// TaskDetail is the full task projection returned by create, get, and
// update: every task field plus the owner's username and the ordered
// comment list.
type TaskDetail struct {
	Task      domain.Task
	OwnerName string
	Comments  []store.CommentView
}

// TaskService exposes the task operations of the resource API.
type TaskService interface {
	// Create validates the business rules and persists a new task owned by
	// the actor. Returns ErrQuotaExceeded when the actor already has
	// MaxActiveTasks active tasks and the new task would be active too.
	Create(ctx context.Context, actor *domain.User, input CreateTaskInput) (*TaskDetail, error)

	// Get returns the full task detail.
	// Returns store.ErrTaskNotFound for unknown IDs and ErrForbidden when
	// the actor may not read the task.
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*TaskDetail, error)

	// Update applies a full or partial update. Requires write access;
	// returns ErrForbidden for non-owner non-privileged actors. The quota
	// check excludes the task itself from the active count.
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input UpdateTaskInput) (*TaskDetail, error)

	// Delete removes the task and, through the cascade constraint, all its
	// comments. Requires write access.
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error

	// List returns one page of the actor's own tasks. Listing is
	// owner-scoped: other users' tasks never appear here, only through Get.
	List(ctx context.Context, actor *domain.User, params store.ListTasksParams) (*store.TaskPage, error)
}

// taskService is the production TaskService backed by a transactional store.
type taskService struct {
	db       store.TxRunner
	tasks    store.TaskStore
	comments store.CommentStore
	logger   *slog.Logger

	// runInTx is store.RunInTransaction, injectable for testing.
	runInTx func(ctx context.Context, db store.TxRunner, fn store.TxFn) error
}

// Ensure taskService implements TaskService interface
var _ TaskService = (*taskService)(nil)

// NewTaskService creates a new TaskService.
// If logger is nil, a default logger will be used.
func NewTaskService(
	db store.TxRunner,
	tasks store.TaskStore,
	comments store.CommentStore,
	logger *slog.Logger,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}

	return &taskService{
		db:       db,
		tasks:    tasks,
		comments: comments,
		logger:   logger.With(slog.String("component", "task_service")),
		runInTx:  store.RunInTransaction,
	}
}

// checkQuota enforces the active-task quota for the task's owner. It must
// run on a store bound to the same transaction as the subsequent
// insert/update: the per-owner advisory lock serializes concurrent
// same-owner writers so two requests can never both read a stale count and
// both pass.
//
// The check is skipped when the proposed status is done; the task will not
// count as active. Unauthenticated requests are rejected before this point.
func checkQuota(
	ctx context.Context,
	tasks store.TaskStore,
	ownerID uuid.UUID,
	proposed domain.Status,
	excludeID uuid.UUID,
) error {
	if proposed == domain.StatusDone {
		return nil
	}

	if err := tasks.AcquireOwnerLock(ctx, ownerID); err != nil {
		return fmt.Errorf("failed to serialize quota check: %w", err)
	}

	count, err := tasks.CountActiveByOwner(ctx, ownerID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to count active tasks: %w", err)
	}

	if count >= MaxActiveTasks {
		return ErrQuotaExceeded
	}

	return nil
}

// Create implements TaskService.Create
func (s *taskService) Create(ctx context.Context, actor *domain.User, input CreateTaskInput) (*TaskDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor == nil {
		return nil, ErrForbidden
	}

	// Owner is forced to the actor; any client-supplied owner value was
	// already discarded at the API boundary.
	task, err := domain.NewTask(actor.ID, input.Title, input.Description, input.Priority, input.Status)
	if err != nil {
		return nil, err
	}

	err = s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		if err := checkQuota(ctx, txTasks, task.OwnerID, task.Status, uuid.Nil); err != nil {
			return err
		}

		return txTasks.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", actor.ID.String()))

	return &TaskDetail{Task: *task, OwnerName: actor.Username}, nil
}

// Get implements TaskService.Get
func (s *taskService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*TaskDetail, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanRead(actor, task) {
		return nil, ErrForbidden
	}

	return s.buildDetail(ctx, task)
}

// Update implements TaskService.Update
func (s *taskService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input UpdateTaskInput) (*TaskDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanWrite(actor, task) {
		log.Debug("update denied",
			slog.String("task_id", id.String()),
			slog.String("actor_id", actorID(actor)))
		return nil, ErrForbidden
	}

	applyUpdate(task, input)
	if err := task.Validate(); err != nil {
		return nil, err
	}

	err = s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		// The task itself is excluded from the count so keeping an existing
		// active task active never trips the quota.
		if err := checkQuota(ctx, txTasks, task.OwnerID, task.Status, task.ID); err != nil {
			return err
		}

		return txTasks.Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("task updated", slog.String("task_id", task.ID.String()))

	return s.buildDetail(ctx, task)
}

// Delete implements TaskService.Delete
func (s *taskService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !authz.CanWrite(actor, task) {
		log.Debug("delete denied",
			slog.String("task_id", id.String()),
			slog.String("actor_id", actorID(actor)))
		return ErrForbidden
	}

	return s.tasks.Delete(ctx, id)
}

// List implements TaskService.List
func (s *taskService) List(ctx context.Context, actor *domain.User, params store.ListTasksParams) (*store.TaskPage, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	// Owner-scoped visibility: the policy restricts resource-API listings
	// to the actor's own tasks. The administrative surface has its own,
	// wider listing.
	params.OwnerID = actor.ID

	return s.tasks.List(ctx, params)
}

// buildDetail assembles the full projection for a task.
func (s *taskService) buildDetail(ctx context.Context, task *domain.Task) (*TaskDetail, error) {
	ownerName, err := s.tasks.GetOwnerName(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	return &TaskDetail{
		Task:      *task,
		OwnerName: ownerName,
		Comments:  comments,
	}, nil
}

// applyUpdate copies the non-nil input fields onto the task.
func applyUpdate(task *domain.Task, input UpdateTaskInput) {
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
}

func actorID(actor *domain.User) string {
	if actor == nil {
		return "anonymous"
	}
	return actor.ID.String()
}
