package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/portalhq/portal/internal/api/middleware"
	"github.com/portalhq/portal/internal/api/response"
	"github.com/portalhq/portal/internal/notification"
)

type notificationResponse struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	Kind       string `json:"kind"`
	ObjectType string `json:"objectType"`
	ObjectID   string `json:"objectId"`
	Message    string `json:"message"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"createdAt"`
}

func toNotificationResponse(n *notification.Notification) notificationResponse {
	return notificationResponse{
		ID:         n.ID.String(),
		SenderID:   n.SenderID.String(),
		Kind:       n.Kind,
		ObjectType: n.ObjectType,
		ObjectID:   n.ObjectID.String(),
		Message:    n.Message,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NotificationHandler handles the caller's notification endpoints.
type NotificationHandler struct {
	service *notification.Service
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	notifications, err := h.service.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("failed to list notifications", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications", requestID)
		return
	}

	writeNotificationList(w, notifications, requestID)
}

// ListUnread handles GET /notifications/unread.
func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	notifications, err := h.service.ListUnread(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("failed to list unread notifications", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications", requestID)
		return
	}

	writeNotificationList(w, notifications, requestID)
}

func writeNotificationList(w http.ResponseWriter, notifications []notification.Notification, requestID string) {
	items := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, toNotificationResponse(&notifications[i]))
	}
	response.Success(w, http.StatusOK, items, requestID)
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), id, identity.UserID); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", requestID)
			return
		}
		slog.Error("failed to mark notification read", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notification read", requestID)
		return
	}

	response.NoContent(w)
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	updated, err := h.service.MarkAllRead(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("failed to mark notifications read", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notifications read", requestID)
		return
	}

	response.Success(w, http.StatusOK, map[string]int{"updated": updated}, requestID)
}
