package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := NewSystemHandler("finledger", "1.2.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		r := newTestEngine()
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, map[string]any{"database": "ok"}, data["checks"])
	})

	t.Run("failed check degrades", func(t *testing.T) {
		h := NewSystemHandler("finledger", "1.2.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		r := newTestEngine()
		r.GET("/health", h.Health)

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, "degraded", data["status"])
		checks := data["checks"].(map[string]any)
		assert.Equal(t, "connection refused", checks["redis"])
	})
}

func TestSystemHandler_Info(t *testing.T) {
	h := NewSystemHandler("finledger", "1.2.0", nil)
	r := newTestEngine()
	r.GET("/system/info", h.Info)

	w := doJSON(r, http.MethodGet, "/system/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "finledger", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}
