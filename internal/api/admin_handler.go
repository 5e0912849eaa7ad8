package api

import (
	"log/slog"
	"net/http"

	"github.com/hdhector/taskflow/internal/api/shared"
	"github.com/hdhector/taskflow/internal/authz"
	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/platform/logger"
	"github.com/hdhector/taskflow/internal/service"
	"github.com/hdhector/taskflow/internal/store"
)

// AdminHandler handles the administrative surface over tasks and comments.
//
// Unlike the resource API, a non-owner staff actor is not hard-denied on
// write: the service coerces every field to read-only and returns the
// stored state untouched. The handlers here only gate on staff membership.
type AdminHandler struct {
	adminService service.AdminService
	userStore    store.UserStore
	logger       *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	adminService service.AdminService,
	userStore store.UserStore,
	logger *slog.Logger,
) *AdminHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AdminHandler")
	}

	return &AdminHandler{
		adminService: adminService,
		userStore:    userStore,
		logger:       logger.With(slog.String("component", "admin_handler")),
	}
}

// loadStaffActor resolves the authenticated user and requires staff access.
func (h *AdminHandler) loadStaffActor(w http.ResponseWriter, r *http.Request) *domain.User {
	actor, err := loadActor(r, h.userStore)
	if err != nil {
		h.respondError(w, r, err)
		return nil
	}

	if !authz.CanOpenAdminDetail(actor) {
		shared.RespondWithError(
			w,
			r,
			http.StatusForbidden,
			"Staff access required",
		)
		return nil
	}

	return actor
}

// ListTasks handles GET /admin/tasks requests. The listing spans all
// owners; the same filters and ordering as the resource API apply.
func (h *AdminHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor := h.loadStaffActor(w, r)
	if actor == nil {
		return
	}

	params, err := parseListParams(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.adminService.ListTasks(r.Context(), actor, params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// GetTask handles GET /admin/tasks/{id} requests. The response includes the
// writable-field set so the client can render read-only fields as such.
func (h *AdminHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor := h.loadStaffActor(w, r)
	if actor == nil {
		return
	}

	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	detail, err := h.adminService.GetTask(r.Context(), actor, taskID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, adminDetailToResponse(detail))
}

// UpdateTask handles PUT /admin/tasks/{id} requests. Fields outside the
// actor's writable set are silently dropped rather than rejected, so a
// non-owner staff actor submitting the form gets the stored state back.
func (h *AdminHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor := h.loadStaffActor(w, r)
	if actor == nil {
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

	detail, err := h.adminService.UpdateTask(r.Context(), actor, taskID, updateInputFromRequest(req))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	log.Debug("admin task update",
		slog.String("task_id", taskID.String()),
		slog.String("actor_id", actor.ID.String()),
		slog.Int("writable_fields", len(detail.WritableFields)))

	shared.RespondWithJSON(w, r, http.StatusOK, adminDetailToResponse(detail))
}

// CreateComment handles POST /admin/tasks/{id}/comments requests.
func (h *AdminHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor := h.loadStaffActor(w, r)
	if actor == nil {
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

	comment, err := h.adminService.CreateComment(r.Context(), actor, taskID, req.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, commentToResponse(*comment))
}

// UpdateComment handles PUT /admin/tasks/{id}/comments/{commentID}
// requests. Only the comment's content may change; author and task are
// immutable.
func (h *AdminHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor := h.loadStaffActor(w, r)
	if actor == nil {
		return
	}

	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	commentID, err := parseIDParam(r, "commentID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	var req UpdateCommentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	comment, err := h.adminService.UpdateComment(r.Context(), actor, taskID, commentID, req.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, commentToResponse(*comment))
}

// respondError maps a service error to its status code and safe message.
func (h *AdminHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)
	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}
