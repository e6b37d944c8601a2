package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeValidation, http.StatusBadRequest},
		{shared.CodeDependencyNotFound, http.StatusNotFound},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeSequenceConflict, http.StatusConflict},
		{shared.CodeConcurrencyConflict, http.StatusConflict},
		{shared.CodeIntegrityViolation, http.StatusUnprocessableEntity},
		{shared.CodeInvalidState, http.StatusUnprocessableEntity},
		{shared.CodePartialBatchFailure, http.StatusMultiStatus},
		{shared.CodeStorageUnavailable, http.StatusServiceUnavailable},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponse(shared.CodePartialBatchFailure, "stopped", "req-1",
		BatchDetails{Committed: 500, Total: 1200, FailedChunk: 1})
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "PARTIAL_BATCH_FAILURE",
			"message": "stopped",
			"request_id": "req-1",
			"details": {"committed": 500, "total": 1200, "failed_chunk": 1}
		}
	}`, string(raw))
}

func TestDate(t *testing.T) {
	var body struct {
		A Date  `json:"a"`
		B Date  `json:"b"`
		C *Date `json:"c"`
		D Date  `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2025-01-02","b":"2025-01-02T10:30:00+05:30","c":null,"d":""}`), &body))
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), body.A.Time)
	assert.Equal(t, 5, body.B.UTC().Hour())
	assert.Nil(t, body.C.Ptr())
	assert.True(t, body.D.IsZero())
	assert.WithinDuration(t, time.Now(), body.D.OrNow(), time.Minute)

	var bad Date
	assert.Error(t, json.Unmarshal([]byte(`"02/01/2025"`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`20250102`), &bad))

	out, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
