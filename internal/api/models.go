package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/service"
	"github.com/hdhector/taskflow/internal/store"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateTaskRequest defines the payload for creating a task. There is no
// owner field: tasks always belong to the authenticated user.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Status      string `json:"status"      validate:"omitempty,oneof=pending in_progress done"`
}

// UpdateTaskRequest defines the payload for updating a task. Absent fields
// keep their stored values, so the same payload shape serves PUT and PATCH.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"    validate:"omitempty,oneof=low medium high"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending in_progress done"`
}

// CreateCommentRequest defines the payload for commenting on a task.
// Author and task are taken from the request context and URL, never the body.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateCommentRequest defines the payload for editing a comment's content.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CommentResponse represents a comment with its author's username.
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskListResponse is one page of task summaries. Count is the unpaginated
// total so clients can compute page numbers.
type TaskListResponse struct {
	Count   int                 `json:"count"`
	Results []store.TaskSummary `json:"results"`
}

// TaskDetailResponse represents the full task detail returned by the
// single-task endpoints.
type TaskDetailResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	Owner       string            `json:"owner"`
	Comments    []CommentResponse `json:"comments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// AdminTaskDetailResponse is the administrative detail projection. The
// writable_fields array tells the client which fields this actor may edit;
// empty means the view is read-only.
type AdminTaskDetailResponse struct {
	TaskDetailResponse
	WritableFields []string `json:"writable_fields"`
}

// commentToResponse converts a store comment view into its API shape.
func commentToResponse(v store.CommentView) CommentResponse {
	return CommentResponse{
		ID:        v.Comment.ID,
		TaskID:    v.Comment.TaskID,
		Author:    v.AuthorName,
		Content:   v.Comment.Content,
		CreatedAt: v.Comment.CreatedAt,
	}
}

// commentsToResponse converts a comment view slice, never returning nil so
// the JSON field serializes as [] rather than null.
func commentsToResponse(views []store.CommentView) []CommentResponse {
	out := make([]CommentResponse, 0, len(views))
	for _, v := range views {
		out = append(out, commentToResponse(v))
	}
	return out
}

// detailToResponse converts a service task detail into its API shape.
func detailToResponse(d *service.TaskDetail) TaskDetailResponse {
	return TaskDetailResponse{
		ID:          d.Task.ID,
		Title:       d.Task.Title,
		Description: d.Task.Description,
		Priority:    string(d.Task.Priority),
		Status:      string(d.Task.Status),
		Owner:       d.OwnerName,
		Comments:    commentsToResponse(d.Comments),
		CreatedAt:   d.Task.CreatedAt,
		UpdatedAt:   d.Task.UpdatedAt,
	}
}

// adminDetailToResponse converts an administrative detail, keeping the
// writable-field set non-nil for stable JSON output.
func adminDetailToResponse(d *service.AdminTaskDetail) AdminTaskDetailResponse {
	fields := d.WritableFields
	if fields == nil {
		fields = []string{}
	}
	return AdminTaskDetailResponse{
		TaskDetailResponse: detailToResponse(&d.TaskDetail),
		WritableFields:     fields,
	}
}

// pageToResponse converts a store task page, never returning nil results.
func pageToResponse(page *store.TaskPage) TaskListResponse {
	results := page.Tasks
	if results == nil {
		results = []store.TaskSummary{}
	}
	return TaskListResponse{
		Count:   page.Total,
		Results: results,
	}
}
