package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hdhector/taskflow/internal/api/shared"
	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/service"
	"github.com/hdhector/taskflow/internal/store"
)

// mockTaskService implements service.TaskService with function fields.
type mockTaskService struct {
	CreateFn func(ctx context.Context, actor *domain.User, input service.CreateTaskInput) (*service.TaskDetail, error)
	GetFn    func(ctx context.Context, actor *domain.User, id uuid.UUID) (*service.TaskDetail, error)
	UpdateFn func(ctx context.Context, actor *domain.User, id uuid.UUID, input service.UpdateTaskInput) (*service.TaskDetail, error)
	DeleteFn func(ctx context.Context, actor *domain.User, id uuid.UUID) error
	ListFn   func(ctx context.Context, actor *domain.User, params store.ListTasksParams) (*store.TaskPage, error)
}

func (m *mockTaskService) Create(ctx context.Context, actor *domain.User, input service.CreateTaskInput) (*service.TaskDetail, error) {
	return m.CreateFn(ctx, actor, input)
}

func (m *mockTaskService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*service.TaskDetail, error) {
	return m.GetFn(ctx, actor, id)
}

func (m *mockTaskService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input service.UpdateTaskInput) (*service.TaskDetail, error) {
	return m.UpdateFn(ctx, actor, id, input)
}

func (m *mockTaskService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	return m.DeleteFn(ctx, actor, id)
}

func (m *mockTaskService) List(ctx context.Context, actor *domain.User, params store.ListTasksParams) (*store.TaskPage, error) {
	return m.ListFn(ctx, actor, params)
}

// mockCommentService implements service.CommentService with function fields.
type mockCommentService struct {
	ListByTaskFn func(ctx context.Context, actor *domain.User, taskID uuid.UUID) ([]store.CommentView, error)
	CreateFn     func(ctx context.Context, actor *domain.User, taskID uuid.UUID, content string) (*store.CommentView, error)
}

func (m *mockCommentService) ListByTask(ctx context.Context, actor *domain.User, taskID uuid.UUID) ([]store.CommentView, error) {
	return m.ListByTaskFn(ctx, actor, taskID)
}

func (m *mockCommentService) Create(ctx context.Context, actor *domain.User, taskID uuid.UUID, content string) (*store.CommentView, error) {
	return m.CreateFn(ctx, actor, taskID, content)
}

// mockAdminService implements service.AdminService with function fields.
type mockAdminService struct {
	ListTasksFn     func(ctx context.Context, actor *domain.User, params store.ListTasksParams) (*store.TaskPage, error)
	GetTaskFn       func(ctx context.Context, actor *domain.User, id uuid.UUID) (*service.AdminTaskDetail, error)
	UpdateTaskFn    func(ctx context.Context, actor *domain.User, id uuid.UUID, input service.UpdateTaskInput) (*service.AdminTaskDetail, error)
	CreateCommentFn func(ctx context.Context, actor *domain.User, taskID uuid.UUID, content string) (*store.CommentView, error)
	UpdateCommentFn func(ctx context.Context, actor *domain.User, taskID, commentID uuid.UUID, content string) (*store.CommentView, error)
}

func (m *mockAdminService) ListTasks(ctx context.Context, actor *domain.User, params store.ListTasksParams) (*store.TaskPage, error) {
	return m.ListTasksFn(ctx, actor, params)
}

func (m *mockAdminService) GetTask(ctx context.Context, actor *domain.User, id uuid.UUID) (*service.AdminTaskDetail, error) {
	return m.GetTaskFn(ctx, actor, id)
}

func (m *mockAdminService) UpdateTask(ctx context.Context, actor *domain.User, id uuid.UUID, input service.UpdateTaskInput) (*service.AdminTaskDetail, error) {
	return m.UpdateTaskFn(ctx, actor, id, input)
}

func (m *mockAdminService) CreateComment(ctx context.Context, actor *domain.User, taskID uuid.UUID, content string) (*store.CommentView, error) {
	return m.CreateCommentFn(ctx, actor, taskID, content)
}

func (m *mockAdminService) UpdateComment(ctx context.Context, actor *domain.User, taskID, commentID uuid.UUID, content string) (*store.CommentView, error) {
	return m.UpdateCommentFn(ctx, actor, taskID, commentID, content)
}

// testLogger returns a logger that discards output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAuthenticatedRequest builds a request with the user ID in its context,
// as the auth middleware would leave it, and optional chi URL params.
func newAuthenticatedRequest(
	t *testing.T,
	method, target string,
	body interface{},
	userID uuid.UUID,
	urlParams map[string]string,
) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)

	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}

	if len(urlParams) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range urlParams {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

// decodeBody unmarshals the recorded response body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
