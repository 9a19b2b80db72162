package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func serveHealth(h *HealthHandler, path string) *httptest.ResponseRecorder {
	e := gin.New()
	e.GET("/api/health", h.Health)
	e.GET("/api/health/ready", h.Ready)
	e.GET("/api/health/live", h.Live)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serveHealth(NewHealthHandler(nil, false, "1.0.0"), "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serveHealth(NewHealthHandler(nil, false, "1.0.0"), "/api/health/live")
	assert.JSONEq(t, `{"status":"ok","version":"1.0.0"}`, w.Body.String())
}

func TestReady(t *testing.T) {
	w := serveHealth(NewHealthHandler(nil, true, ""), "/api/health/ready")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "disabled", checks["redis"].(map[string]any)["status"])

	ok := checkerFunc(func(context.Context) error { return nil })
	w = serveHealth(NewHealthHandler(ok, false, ""), "/api/health/ready")
	require.Equal(t, http.StatusOK, w.Code)
	checks = decodeBody(t, w)["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["redis"].(map[string]any)["status"])
	assert.Equal(t, "degraded", checks["openrouter"].(map[string]any)["status"])

	down := checkerFunc(func(context.Context) error { return errors.New("connection refused") })
	w = serveHealth(NewHealthHandler(down, true, ""), "/api/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "not_ready", body["status"])
	assert.Equal(t, "connection refused", body["checks"].(map[string]any)["redis"].(map[string]any)["error"])
}
