package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/store"
)

// MockCommentStore implements store.CommentStore for testing
type MockCommentStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, comment *domain.Comment) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByTaskFn    func(ctx context.Context, taskID uuid.UUID) ([]store.CommentView, error)
	UpdateContentFn func(ctx context.Context, id uuid.UUID, content string) error
	AuthorNameFn    func(ctx context.Context, id uuid.UUID) (string, error)

	// Data for default implementation
	mu          sync.Mutex
	Comments    map[uuid.UUID]*domain.Comment
	AuthorNames map[uuid.UUID]string // keyed by author ID
}

// NewMockCommentStore creates a new mock store with initialized defaults
func NewMockCommentStore() *MockCommentStore {
	return &MockCommentStore{
		Comments:    make(map[uuid.UUID]*domain.Comment),
		AuthorNames: make(map[uuid.UUID]string),
	}
}

// AddComment registers a comment in the default in-memory map.
func (m *MockCommentStore) AddComment(comment *domain.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *comment
	m.Comments[comment.ID] = &copied
}

// Create implements the CommentStore interface
func (m *MockCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, comment)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *comment
	m.Comments[comment.ID] = &copied
	return nil
}

// GetByID implements the CommentStore interface
func (m *MockCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	comment, exists := m.Comments[id]
	if !exists {
		return nil, store.ErrCommentNotFound
	}
	copied := *comment
	return &copied, nil
}

// ListByTask implements the CommentStore interface
func (m *MockCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]store.CommentView, error) {
	if m.ListByTaskFn != nil {
		return m.ListByTaskFn(ctx, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	views := []store.CommentView{}
	for _, comment := range m.Comments {
		if comment.TaskID != taskID {
			continue
		}
		views = append(views, store.CommentView{
			Comment:    *comment,
			AuthorName: m.AuthorNames[comment.AuthorID],
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Comment.CreatedAt.Before(views[j].Comment.CreatedAt)
	})
	return views, nil
}

// UpdateContent implements the CommentStore interface
func (m *MockCommentStore) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	if m.UpdateContentFn != nil {
		return m.UpdateContentFn(ctx, id, content)
	}

	if content == "" {
		return domain.ErrCommentContentEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	comment, exists := m.Comments[id]
	if !exists {
		return store.ErrCommentNotFound
	}
	comment.Content = content
	return nil
}

// AuthorName implements the CommentStore interface
func (m *MockCommentStore) AuthorName(ctx context.Context, id uuid.UUID) (string, error) {
	if m.AuthorNameFn != nil {
		return m.AuthorNameFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	comment, exists := m.Comments[id]
	if !exists {
		return "", store.ErrCommentNotFound
	}
	return m.AuthorNames[comment.AuthorID], nil
}

// WithTx implements the CommentStore interface for transaction support
func (m *MockCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return m
}

// Ensure MockCommentStore implements store.CommentStore
var _ store.CommentStore = (*MockCommentStore)(nil)
