package dto

import (
	"net/http"

	"github.com/finledger/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain failures keep their own codes.
const (
	ErrCodeValidation      = shared.CodeValidation
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeTimeout         = "REQUEST_TIMEOUT"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:          http.StatusBadRequest,
	shared.CodeDependencyNotFound:  http.StatusNotFound,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeSequenceConflict:    http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeIntegrityViolation:  http.StatusUnprocessableEntity,
	shared.CodeInvalidState:        http.StatusUnprocessableEntity,
	shared.CodeStorageUnavailable:  http.StatusServiceUnavailable,

	// some chunks are durable; the body says how many
	shared.CodePartialBatchFailure: http.StatusMultiStatus,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status of an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
