// Package handler adapts the ledger service to HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/finledger/backend/internal/domain/shared"
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/finledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Limits bound request sizes the handlers accept
type Limits struct {
	MaxBulkItems      int
	MaxAuditPageSize  int
	DefaultAuditLimit int
}

// DefaultLimits are used for zero fields of Limits
var DefaultLimits = Limits{
	MaxBulkItems:      5000,
	MaxAuditPageSize:  200,
	DefaultAuditLimit: 50,
}

func (l Limits) withDefaults() Limits {
	if l.MaxBulkItems <= 0 {
		l.MaxBulkItems = DefaultLimits.MaxBulkItems
	}
	if l.MaxAuditPageSize <= 0 {
		l.MaxAuditPageSize = DefaultLimits.MaxAuditPageSize
	}
	if l.DefaultAuditLimit <= 0 {
		l.DefaultAuditLimit = DefaultLimits.DefaultAuditLimit
	}
	if l.DefaultAuditLimit > l.MaxAuditPageSize {
		l.DefaultAuditLimit = l.MaxAuditPageSize
	}
	return l
}

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c), nil))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, message string, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, middleware.GetRequestID(c), details))
}

// BindJSON decodes the body into req. On failure it writes the error
// response and returns false.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// BindQuery decodes the query string into req
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "request body exceeds maximum allowed size")
		return
	}
	if details := middleware.ValidationDetails(err); details != nil {
		h.ValidationError(c, "Request validation failed", details)
		return
	}
	h.BadRequest(c, "Malformed request: "+err.Error())
}

// HandleError converts service errors to HTTP responses. Domain codes are
// passed through; a partially applied batch also reports its progress.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var batchErr *shared.BatchError
	if errors.As(err, &batchErr) {
		c.JSON(dto.GetHTTPStatus(shared.CodePartialBatchFailure), dto.NewErrorResponse(
			shared.CodePartialBatchFailure, batchErr.Error(), requestID, dto.BatchDetails{
				Committed:   batchErr.Committed,
				Total:       batchErr.Total,
				FailedChunk: batchErr.FailedChunk,
			}))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID, nil))
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID, nil))
}

// actor returns the acting user set by the Actor middleware
func actor(c *gin.Context) string {
	return middleware.GetActorID(c)
}
