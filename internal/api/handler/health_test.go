package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/portal/internal/api/handler"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestHealth_Healthy(t *testing.T) {
	h := handler.NewHealthHandler(&fakePinger{}, "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "1.2.3", data["version"])

	db := data["database"].(map[string]interface{})
	assert.Equal(t, true, db["connected"])
}

func TestHealth_DegradedWhenDatabaseUnreachable(t *testing.T) {
	h := handler.NewHealthHandler(&fakePinger{err: errors.New("connection refused")}, "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "a degraded service still answers its health check")

	env := decodeEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "degraded", data["status"])

	db := data["database"].(map[string]interface{})
	assert.Equal(t, false, db["connected"])
}
