package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/finledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID("X-Request-ID", zap.NewNop()), middleware.Actor("X-User-ID", "system"))
	return r
}

func doJSON(r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", shared.NewValidationError("amount must be positive"), http.StatusBadRequest, shared.CodeValidation},
		{"missing dependency", shared.NewDependencyNotFound("invoice", "inv-9"), http.StatusNotFound, shared.CodeDependencyNotFound},
		{"sequence conflict", shared.NewSequenceConflict("invoice number taken"), http.StatusConflict, shared.CodeSequenceConflict},
		{"integrity", shared.NewIntegrityViolation("balance below zero"), http.StatusUnprocessableEntity, shared.CodeIntegrityViolation},
		{"storage", shared.NewStorageUnavailable("database down"), http.StatusServiceUnavailable, shared.CodeStorageUnavailable},
		{"wrapped domain error", fmt.Errorf("apply: %w", shared.NewInvalidState("invoice is void")), http.StatusUnprocessableEntity, shared.CodeInvalidState},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := newTestEngine()
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := doJSON(r, http.MethodGet, "/", nil, "X-Request-ID", "req-7")
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-7", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_Batch(t *testing.T) {
	h := &BaseHandler{}
	r := newTestEngine()
	r.GET("/", func(c *gin.Context) {
		h.HandleError(c, &shared.BatchError{
			Committed:   1000,
			Total:       1200,
			FailedChunk: 2,
			Cause:       shared.NewStorageUnavailable("connection reset"),
		})
	})

	w := doJSON(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusMultiStatus, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, shared.CodePartialBatchFailure, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1000, details["committed"])
	assert.EqualValues(t, 1200, details["total"])
	assert.EqualValues(t, 2, details["failed_chunk"])
}

func TestBaseHandler_BindJSON(t *testing.T) {
	type body struct {
		Name string `json:"name" binding:"required"`
	}
	h := &BaseHandler{}
	r := newTestEngine()
	r.POST("/", func(c *gin.Context) {
		var b body
		if !h.BindJSON(c, &b) {
			return
		}
		h.Success(c, b.Name)
	})

	w := doJSON(r, http.MethodPost, "/", `{"name":"ok"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	w = doJSON(r, http.MethodPost, "/", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, decode(t, w).Error.Code)
}

func TestLimits_WithDefaults(t *testing.T) {
	l := Limits{MaxAuditPageSize: 20}.withDefaults()
	assert.Equal(t, DefaultLimits.MaxBulkItems, l.MaxBulkItems)
	assert.Equal(t, 20, l.MaxAuditPageSize)
	assert.Equal(t, 20, l.DefaultAuditLimit, "default page never exceeds the maximum")
}
