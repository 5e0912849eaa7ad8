package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Priority classifies how urgent a task is.
type Priority string

// Valid priority values.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if p is one of the known priority values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status tracks a task through its lifecycle. A task counts against its
// owner's active quota until it reaches StatusDone.
type Status string

// Valid status values.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// IsValid returns true if s is one of the known status values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 200

// Task validation errors
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwner   = errors.New("task owner cannot be empty")
	ErrTaskTitleEmpty   = errors.New("title cannot be empty")
	ErrTaskTitleTooLong = errors.New("title cannot exceed 200 characters")
	ErrInvalidPriority  = errors.New("priority must be one of: low, medium, high")
	ErrInvalidStatus    = errors.New("status must be one of: pending, in_progress, done")
)

// Task represents a unit of work owned by a single user. OwnerID is fixed
// at creation and never changes afterward.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by ownerID. An empty priority defaults
// to medium and an empty status defaults to pending.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string, priority Priority, status Status) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	if status == "" {
		status = StatusPending
	}

	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if len([]rune(t.Title)) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// IsActive reports whether the task counts against its owner's quota.
func (t *Task) IsActive() bool {
	return t.Status != StatusDone
}
