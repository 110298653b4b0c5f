package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/portal/internal/api/handler"
	"github.com/portalhq/portal/internal/auth"
	"github.com/portalhq/portal/internal/user"
)

type mockUserRepo struct {
	createFn func(ctx context.Context, u *user.User) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = uuid.New()
	return nil
}

func (m *mockUserRepo) GetByID(context.Context, uuid.UUID) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(context.Context, string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (m *mockUserRepo) FindByPrefix(context.Context, string) ([]user.User, error) {
	return nil, nil
}

func (m *mockUserRepo) List(context.Context) ([]user.User, error) { return nil, nil }

func postJSON(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestUserRegister_Success(t *testing.T) {
	svc := auth.NewService(&mockUserRepo{}, 4)
	h := handler.NewUserHandler(svc)

	w := postJSON(t, h.Register, "/users", `{"username":"alice","email":"alice@example.com"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	env := decodeEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "alice@example.com", data["email"])

	apiKey, _ := data["apiKey"].(string)
	assert.True(t, strings.HasPrefix(apiKey, "ptl_"), "registration must return the raw key")
}

func TestUserRegister_ValidationError(t *testing.T) {
	svc := auth.NewService(&mockUserRepo{}, 4)
	h := handler.NewUserHandler(svc)

	w := postJSON(t, h.Register, "/users", `{"username":"has spaces","email":""}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	apiErr := env["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", apiErr["code"])
	assert.NotEmpty(t, apiErr["details"], "field errors should be listed")
}

func TestUserRegister_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(context.Context, *user.User) error {
			return user.ErrDuplicateUsername
		},
	}
	svc := auth.NewService(repo, 4)
	h := handler.NewUserHandler(svc)

	w := postJSON(t, h.Register, "/users", `{"username":"alice","email":"alice@example.com"}`)

	require.Equal(t, http.StatusConflict, w.Code)

	env := decodeEnvelope(t, w)
	apiErr := env["error"].(map[string]interface{})
	assert.Equal(t, "DUPLICATE_USERNAME", apiErr["code"])
}

func TestUserRegister_MalformedJSON(t *testing.T) {
	svc := auth.NewService(&mockUserRepo{}, 4)
	h := handler.NewUserHandler(svc)

	w := postJSON(t, h.Register, "/users", `{"username":`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	apiErr := env["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_JSON", apiErr["code"])
}
