package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/hdhector/taskflow/internal/domain"
)

// Task ordering columns accepted by ListTasksParams.OrderBy.
const (
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
	OrderByPriority  = "priority"
	OrderByStatus    = "status"
)

// ListTasksParams narrows and orders a task listing.
// OwnerID of uuid.Nil means no owner filter (administrative listings);
// zero-valued filters are skipped. Descending controls the sort direction
// of OrderBy, which must be one of the OrderBy* constants.
type ListTasksParams struct {
	OwnerID     uuid.UUID
	Status      domain.Status
	Priority    domain.Priority
	TitleSearch string
	OrderBy     string
	Descending  bool
	Limit       int
	Offset      int
}

// TaskSummary is the lightweight projection used for task listings.
// OwnerName carries the owner's username so callers never render raw IDs.
type TaskSummary struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Priority  domain.Priority `json:"priority"`
	Status    domain.Status   `json:"status"`
	OwnerName string          `json:"owner"`
	CreatedAt time.Time       `json:"created_at"`
}

// TaskPage is one page of a task listing plus the unpaginated total.
type TaskPage struct {
	Tasks []TaskSummary
	Total int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owner does not exist (foreign key violation).
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetOwnerName returns the username of the task's owner.
	// Returns ErrTaskNotFound if the task does not exist.
	GetOwnerName(ctx context.Context, id uuid.UUID) (string, error)

	// Update persists the task's current field values and refreshes its
	// UpdatedAt timestamp. The owner column is never touched; ownership is
	// fixed at creation. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	//
	// Comment removal relies on the ON DELETE CASCADE constraint on the
	// comments.task_id foreign key; no comments survive their task.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of task summaries matching params, joined with
	// owner usernames, ordered per params (created_at descending when
	// params.OrderBy is empty).
	List(ctx context.Context, params ListTasksParams) (*TaskPage, error)

	// CountActiveByOwner counts the owner's tasks with status != done,
	// excluding excludeID when it is not uuid.Nil (the task being updated).
	//
	// The count is only meaningful for quota enforcement when executed in
	// the same transaction as the subsequent insert/update, after
	// AcquireOwnerLock has serialized same-owner writers.
	CountActiveByOwner(ctx context.Context, ownerID, excludeID uuid.UUID) (int, error)

	// AcquireOwnerLock takes a transaction-scoped advisory lock on the
	// owner, serializing concurrent quota check-then-write sequences for
	// that owner. Must be called on a store bound to a transaction; the
	// lock releases automatically at commit or rollback.
	AcquireOwnerLock(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. This allows for multiple operations to be executed within
	// a single transaction. The transaction should be created and managed by
	// the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
