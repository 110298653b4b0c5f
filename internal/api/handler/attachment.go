package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/portalhq/portal/internal/api/middleware"
	"github.com/portalhq/portal/internal/api/response"
	"github.com/portalhq/portal/internal/attachment"
	"github.com/portalhq/portal/internal/comment"
	"github.com/portalhq/portal/internal/perm"
	"github.com/portalhq/portal/internal/task"
)

// maxUploadBytes caps a single multipart upload.
const maxUploadBytes = 32 << 20

type attachmentResponse struct {
	ID         string `json:"id"`
	ObjectType string `json:"objectType"`
	ObjectID   string `json:"objectId"`
	TaskID     string `json:"taskId"`
	FileName   string `json:"fileName"`
	SizeBytes  int64  `json:"sizeBytes"`
	UploadedBy string `json:"uploadedBy"`
	UploadedAt string `json:"uploadedAt"`
}

func toAttachmentResponse(a *attachment.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:         a.ID.String(),
		ObjectType: a.ObjectType,
		ObjectID:   a.ObjectID.String(),
		TaskID:     a.TaskID.String(),
		FileName:   a.FileName,
		SizeBytes:  a.SizeBytes,
		UploadedBy: a.UploadedBy.String(),
		UploadedAt: a.UploadedAt.UTC().Format(time.RFC3339),
	}
}

// AttachmentHandler handles file upload and download endpoints.
type AttachmentHandler struct {
	service *attachment.Service
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(service *attachment.Service) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// UploadToTask handles POST /tasks/{id}/attachments.
func (h *AttachmentHandler) UploadToTask(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, attachment.ObjectTask)
}

// UploadToComment handles POST /comments/{id}/attachments.
func (h *AttachmentHandler) UploadToComment(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, attachment.ObjectComment)
}

func (h *AttachmentHandler) upload(w http.ResponseWriter, r *http.Request, objectType string) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	objectID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "Multipart field 'file' is required", requestID)
		return
	}
	defer file.Close()

	a, err := h.service.Upload(r.Context(), identity.UserID, objectType, objectID, header.Filename, file)
	if err != nil {
		writeAttachmentError(w, err, requestID)
		return
	}

	response.Success(w, http.StatusCreated, toAttachmentResponse(a), requestID)
}

// ListForTask handles GET /tasks/{id}/attachments.
func (h *AttachmentHandler) ListForTask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	taskID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	attachments, err := h.service.ListByObject(r.Context(), identity.UserID, attachment.ObjectTask, taskID)
	if err != nil {
		writeAttachmentError(w, err, requestID)
		return
	}

	items := make([]attachmentResponse, 0, len(attachments))
	for i := range attachments {
		items = append(items, toAttachmentResponse(&attachments[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Download handles GET /attachments/{id}, streaming the stored bytes.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	a, rc, err := h.service.Open(r.Context(), identity.UserID, id)
	if err != nil {
		writeAttachmentError(w, err, requestID)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", a.SizeBytes))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to stream attachment", "error", err, "attachment", a.ID)
	}
}

// Delete handles DELETE /attachments/{id}.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		writeAttachmentError(w, err, requestID)
		return
	}

	response.NoContent(w)
}

func writeAttachmentError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, perm.ErrAccessDenied):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", "You do not have access to this attachment", requestID)
	case errors.Is(err, attachment.ErrAttachmentNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Attachment not found", requestID)
	case errors.Is(err, task.ErrTaskNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Task not found", requestID)
	case errors.Is(err, comment.ErrCommentNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Comment not found", requestID)
	case errors.Is(err, attachment.ErrUnknownObjectType):
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown attachment object type", requestID)
	default:
		slog.Error("attachment request failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Attachment operation failed", requestID)
	}
}
