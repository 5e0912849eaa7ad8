package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hdhector/taskflow/internal/api/shared"
	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/redact"
	"github.com/hdhector/taskflow/internal/service"
	"github.com/hdhector/taskflow/internal/store"
)

// Listing page bounds.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TaskHandler handles task-related HTTP requests on the resource API.
type TaskHandler struct {
	taskService    service.TaskService
	commentService service.CommentService
	userStore      store.UserStore
	logger         *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(
	taskService service.TaskService,
	commentService service.CommentService,
	userStore store.UserStore,
	logger *slog.Logger,
) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService:    taskService,
		commentService: commentService,
		userStore:      userStore,
		logger:         logger.With(slog.String("component", "task_handler")),
	}
}

// loadActor resolves the authenticated user set by the auth middleware.
// Authentication failures were already rejected there, so a missing or
// unknown user here means a stale token for a deleted account.
func loadActor(r *http.Request, users store.UserStore) (*domain.User, error) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// parseIDParam extracts and parses a UUID path parameter.
func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, domain.ErrInvalidID
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}

	return id, nil
}

// parseListParams builds store listing parameters from the query string.
// Supported: status, priority, search, ordering (field name with optional
// "-" prefix for descending), page, page_size.
func parseListParams(r *http.Request) (store.ListTasksParams, error) {
	q := r.URL.Query()

	params := store.ListTasksParams{
		TitleSearch: q.Get("search"),
	}

	if status := q.Get("status"); status != "" {
		s := domain.Status(status)
		if !s.IsValid() {
			return params, domain.ErrInvalidStatus
		}
		params.Status = s
	}

	if priority := q.Get("priority"); priority != "" {
		p := domain.Priority(priority)
		if !p.IsValid() {
			return params, domain.ErrInvalidPriority
		}
		params.Priority = p
	}

	if ordering := q.Get("ordering"); ordering != "" {
		field := ordering
		if strings.HasPrefix(field, "-") {
			params.Descending = true
			field = field[1:]
		}
		switch field {
		case store.OrderByCreatedAt, store.OrderByUpdatedAt, store.OrderByPriority, store.OrderByStatus:
			params.OrderBy = field
		default:
			return params, errors.New("ordering must be one of: created_at, updated_at, priority, status")
		}
	}

	pageSize := defaultPageSize
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return params, errors.New("page_size must be a positive integer")
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		pageSize = n
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return params, errors.New("page must be a positive integer")
		}
		page = n
	}

	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	return params, nil
}

// List handles GET /api/tasks requests. The listing is scoped to the
// authenticated user's own tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, err := loadActor(r, h.userStore)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	params, err := parseListParams(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.taskService.List(r.Context(), actor, params)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", redact.Error(err)))
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// Create handles POST /api/tasks requests. The task owner is always the
// authenticated user; the payload carries no owner field.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, err := loadActor(r, h.userStore)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	detail, err := h.taskService.Create(r.Context(), actor, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		Status:      domain.Status(req.Status),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	log.Debug("task created",
		slog.String("task_id", detail.Task.ID.String()),
		slog.String("user_id", actor.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, detailToResponse(detail))
}

// Get handles GET /api/tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.userStore)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	detail, err := h.taskService.Get(r.Context(), actor, taskID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, detailToResponse(detail))
}

// Update handles PUT and PATCH /api/tasks/{id} requests. Both verbs accept
// the same payload; fields absent from the body keep their stored values.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, err := loadActor(r, h.userStore)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	detail, err := h.taskService.Update(r.Context(), actor, taskID, updateInputFromRequest(req))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	log.Debug("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", actor.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, detailToResponse(detail))
}

// Delete handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, err := loadActor(r, h.userStore)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	if err := h.taskService.Delete(r.Context(), actor, taskID); err != nil {
		h.respondError(w, r, err)
		return
	}

	log.Debug("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", actor.ID.String()))

	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /api/tasks/{id}/comments requests. Comments come
// back ordered by creation time ascending.
func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	actor, err := loadActor(r, h.userStore)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	comments, err := h.commentService.ListByTask(r.Context(), actor, taskID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, commentsToResponse(comments))
}

// CreateComment handles POST /api/tasks/{id}/comments requests. Any user
// who can read the task may comment on it; the author is always the
// authenticated user.
func (h *TaskHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, err := loadActor(r, h.userStore)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req CreateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	comment, err := h.commentService.Create(r.Context(), actor, taskID, req.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	log.Debug("comment created",
		slog.String("task_id", taskID.String()),
		slog.String("comment_id", comment.Comment.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, commentToResponse(*comment))
}

// respondError maps a service error to its status code and safe message.
func (h *TaskHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)
	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}

// updateInputFromRequest converts the request payload into the service's
// typed update input.
func updateInputFromRequest(req UpdateTaskRequest) service.UpdateTaskInput {
	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		input.Priority = &p
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		input.Status = &s
	}
	return input
}
