package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn             func(ctx context.Context, task *domain.Task) error
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetOwnerNameFn       func(ctx context.Context, id uuid.UUID) (string, error)
	UpdateFn             func(ctx context.Context, task *domain.Task) error
	DeleteFn             func(ctx context.Context, id uuid.UUID) error
	ListFn               func(ctx context.Context, params store.ListTasksParams) (*store.TaskPage, error)
	CountActiveByOwnerFn func(ctx context.Context, ownerID, excludeID uuid.UUID) (int, error)
	AcquireOwnerLockFn   func(ctx context.Context, ownerID uuid.UUID) error

	// Data for default implementation
	mu         sync.Mutex
	Tasks      map[uuid.UUID]*domain.Task
	OwnerNames map[uuid.UUID]string // keyed by owner ID

	// Call tracking for verification
	LockCalls  []uuid.UUID
	CountCalls []uuid.UUID
	ListCalls  []store.ListTasksParams
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks:      make(map[uuid.UUID]*domain.Task),
		OwnerNames: make(map[uuid.UUID]string),
	}
}

// AddTask registers a task in the default in-memory map.
func (m *MockTaskStore) AddTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *task
	m.Tasks[task.ID] = &copied
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// GetOwnerName implements the TaskStore interface
func (m *MockTaskStore) GetOwnerName(ctx context.Context, id uuid.UUID) (string, error) {
	if m.GetOwnerNameFn != nil {
		return m.GetOwnerNameFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, exists := m.Tasks[id]
	if !exists {
		return "", store.ErrTaskNotFound
	}
	if name, ok := m.OwnerNames[task.OwnerID]; ok {
		return name, nil
	}
	return "owner", nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(ctx context.Context, params store.ListTasksParams) (*store.TaskPage, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, params)
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, params)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	page := &store.TaskPage{Tasks: []store.TaskSummary{}}
	for _, task := range m.Tasks {
		if params.OwnerID != uuid.Nil && task.OwnerID != params.OwnerID {
			continue
		}
		if params.Status != "" && task.Status != params.Status {
			continue
		}
		if params.Priority != "" && task.Priority != params.Priority {
			continue
		}
		page.Tasks = append(page.Tasks, store.TaskSummary{
			ID:        task.ID,
			Title:     task.Title,
			Priority:  task.Priority,
			Status:    task.Status,
			OwnerName: m.OwnerNames[task.OwnerID],
			CreatedAt: task.CreatedAt,
		})
	}
	page.Total = len(page.Tasks)
	return page, nil
}

// CountActiveByOwner implements the TaskStore interface
func (m *MockTaskStore) CountActiveByOwner(ctx context.Context, ownerID, excludeID uuid.UUID) (int, error) {
	m.mu.Lock()
	m.CountCalls = append(m.CountCalls, ownerID)
	m.mu.Unlock()

	if m.CountActiveByOwnerFn != nil {
		return m.CountActiveByOwnerFn(ctx, ownerID, excludeID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, task := range m.Tasks {
		if task.OwnerID == ownerID && task.Status != domain.StatusDone && task.ID != excludeID {
			count++
		}
	}
	return count, nil
}

// AcquireOwnerLock implements the TaskStore interface
func (m *MockTaskStore) AcquireOwnerLock(ctx context.Context, ownerID uuid.UUID) error {
	m.mu.Lock()
	m.LockCalls = append(m.LockCalls, ownerID)
	m.mu.Unlock()

	if m.AcquireOwnerLockFn != nil {
		return m.AcquireOwnerLockFn(ctx, ownerID)
	}
	return nil
}

// WithTx implements the TaskStore interface for transaction support
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)
