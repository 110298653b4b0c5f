package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/portalhq/portal/internal/api/middleware"
	"github.com/portalhq/portal/internal/api/response"
	"github.com/portalhq/portal/internal/api/validation"
	"github.com/portalhq/portal/internal/auth"
	"github.com/portalhq/portal/internal/user"
)

type registerUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	// ApiKey is present only in the registration response.
	ApiKey string `json:"apiKey,omitempty"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// UserHandler handles user registration and identity endpoints.
type UserHandler struct {
	authService *auth.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// Register handles POST /users. The API key is returned exactly once.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{
		Username: req.Username,
		Email:    req.Email,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	u, rawKey, err := h.authService.Register(r.Context(), req.Username, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			response.Err(w, http.StatusConflict, "DUPLICATE_USERNAME", fmt.Sprintf("A user named %q already exists", req.Username), requestID)
			return
		}
		slog.Error("failed to register user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user", requestID)
		return
	}

	resp := toUserResponse(u)
	resp.ApiKey = rawKey

	response.Success(w, http.StatusCreated, resp, requestID)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key is required", requestID)
		return
	}

	response.Success(w, http.StatusOK, map[string]string{
		"id":       identity.UserID.String(),
		"username": identity.Username,
		"email":    identity.Email,
	}, requestID)
}
