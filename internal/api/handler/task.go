package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/activity"
	"github.com/portalhq/portal/internal/api/middleware"
	"github.com/portalhq/portal/internal/api/response"
	"github.com/portalhq/portal/internal/api/validation"
	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/task"
	"github.com/portalhq/portal/internal/team"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Deadline    string `json:"deadline"`
	AssigneeID  string `json:"assigneeId"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Deadline    *string `json:"deadline"`
	AssigneeID  *string `json:"assigneeId"`
}

type taskResponse struct {
	ID          string  `json:"id"`
	TeamID      string  `json:"teamId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Deadline    *string `json:"deadline"`
	AssigneeID  *string `json:"assigneeId"`
	CreatedBy   string  `json:"createdBy"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type activityResponse struct {
	ID        string `json:"id"`
	ActorID   string `json:"actorId"`
	Action    string `json:"action"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"createdAt"`
}

func toTaskResponse(t *task.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID.String(),
		TeamID:      t.TeamID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedBy:   t.CreatedBy.String(),
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.Deadline != nil {
		d := t.Deadline.Format("2006-01-02")
		resp.Deadline = &d
	}
	if t.AssigneeID != nil {
		a := t.AssigneeID.String()
		resp.AssigneeID = &a
	}
	return resp
}

// TaskHandler handles task endpoints.
type TaskHandler struct {
	service *task.Service
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /teams/{id}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTaskRequest(validation.CreateTaskRequest{
		Title:      req.Title,
		Status:     req.Status,
		Deadline:   req.Deadline,
		AssigneeID: req.AssigneeID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t := &task.Task{
		TeamID:      teamID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.Deadline != "" {
		d, _ := time.Parse("2006-01-02", req.Deadline)
		t.Deadline = &d
	}
	if req.AssigneeID != "" {
		a, _ := uuid.Parse(req.AssigneeID)
		t.AssigneeID = &a
	}

	created, err := h.service.Create(r.Context(), identity.UserID, t)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTaskResponse(created), requestID)
}

// List handles GET /teams/{id}/tasks with optional status and assigneeId filters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	teamID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var f task.ListFilter
	if s := r.URL.Query().Get("status"); s != "" {
		f.Status = &s
	}
	if a := r.URL.Query().Get("assigneeId"); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "assigneeId must be a valid UUID", requestID)
			return
		}
		f.AssigneeID = &id
	}

	tasks, err := h.service.ListByTeam(r.Context(), identity.UserID, teamID, f)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	items := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, toTaskResponse(&tasks[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), identity.UserID, id)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toTaskResponse(t), requestID)
}

// Update handles PATCH /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateTaskRequest(validation.UpdateTaskRequest{
		Title:      req.Title,
		Status:     req.Status,
		Deadline:   req.Deadline,
		AssigneeID: req.AssigneeID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	fields := task.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.Deadline != nil {
		fields.SetDeadline = true
		if *req.Deadline != "" {
			d, _ := time.Parse("2006-01-02", *req.Deadline)
			fields.Deadline = &d
		}
	}
	if req.AssigneeID != nil {
		fields.SetAssignee = true
		if *req.AssigneeID != "" {
			a, _ := uuid.Parse(*req.AssigneeID)
			fields.AssigneeID = &a
		}
	}

	t, err := h.service.Update(r.Context(), identity.UserID, id, fields)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toTaskResponse(t), requestID)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

// Activity handles GET /tasks/{id}/activity.
func (h *TaskHandler) Activity(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.service.Activity(r.Context(), identity.UserID, id)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	items := make([]activityResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toActivityResponse(e))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

func toActivityResponse(e activity.Entry) activityResponse {
	return activityResponse{
		ID:        e.ID.String(),
		ActorID:   e.ActorID.String(),
		Action:    e.Action,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *TaskHandler) writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, perm.ErrAccessDenied):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", requestID)
	case errors.Is(err, task.ErrTaskNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Task not found", requestID)
	case errors.Is(err, team.ErrTeamNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
	case errors.Is(err, task.ErrAssigneeNotMember):
		response.Err(w, http.StatusBadRequest, "ASSIGNEE_NOT_MEMBER", "Assignee must be a member of the team", requestID)
	case errors.Is(err, task.ErrInvalidStatus):
		response.Err(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be one of TODO, IN_PROGRESS, REVIEW, DONE", requestID)
	default:
		slog.Error("task operation failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed", requestID)
	}
}
