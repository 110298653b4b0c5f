package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/portalhq/portal/internal/api/middleware"
	"github.com/portalhq/portal/internal/api/response"
	"github.com/portalhq/portal/internal/api/validation"
	"github.com/portalhq/portal/internal/comment"
	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/task"
)

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parentId"`
}

type commentResponse struct {
	ID        string            `json:"id"`
	TaskID    string            `json:"taskId"`
	AuthorID  string            `json:"authorId"`
	Content   string            `json:"content"`
	ParentID  *string           `json:"parentId"`
	CreatedAt string            `json:"createdAt"`
	Replies   []commentResponse `json:"replies,omitempty"`
}

func toCommentResponse(c *comment.Comment) commentResponse {
	resp := commentResponse{
		ID:        c.ID.String(),
		TaskID:    c.TaskID.String(),
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.ParentID != nil {
		p := c.ParentID.String()
		resp.ParentID = &p
	}
	return resp
}

func toThreadResponse(nodes []*comment.Node) []commentResponse {
	items := make([]commentResponse, 0, len(nodes))
	for _, n := range nodes {
		item := toCommentResponse(&n.Comment)
		item.Replies = toThreadResponse(n.Replies)
		items = append(items, item)
	}
	return items
}

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	service *comment.Service
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *comment.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create handles POST /tasks/{id}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateCommentRequest(validation.CreateCommentRequest{
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		p, _ := uuid.Parse(req.ParentID)
		parentID = &p
	}

	c, err := h.service.Create(r.Context(), identity.UserID, taskID, req.Content, parentID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toCommentResponse(c), requestID)
}

// List handles GET /tasks/{id}/comments, returning the thread tree.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	nodes, err := h.service.ListThread(r.Context(), identity.UserID, taskID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusOK, toThreadResponse(nodes), requestID)
}

// Delete handles DELETE /comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *CommentHandler) writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, perm.ErrAccessDenied):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", requestID)
	case errors.Is(err, task.ErrTaskNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Task not found", requestID)
	case errors.Is(err, comment.ErrCommentNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Comment not found", requestID)
	case errors.Is(err, comment.ErrParentMismatch):
		response.Err(w, http.StatusBadRequest, "PARENT_MISMATCH", "Parent comment must belong to the same task", requestID)
	default:
		slog.Error("comment operation failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed", requestID)
	}
}
