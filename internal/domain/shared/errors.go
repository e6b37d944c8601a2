package shared

import (
	"errors"
	"fmt"
)

// Error codes surfaced by the ledger core
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeSequenceConflict    = "SEQUENCE_CONFLICT"
	CodeIntegrityViolation  = "INTEGRITY_VIOLATION"
	CodeDependencyNotFound  = "DEPENDENCY_NOT_FOUND"
	CodePartialBatchFailure = "PARTIAL_BATCH_FAILURE"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidState        = "INVALID_STATE"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeStorageUnavailable  = "STORAGE_UNAVAILABLE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so sentinel comparisons work with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrSequenceConflict    = NewDomainError(CodeSequenceConflict, "Sequence number was taken by a concurrent writer")
	ErrStorageUnavailable  = NewDomainError(CodeStorageUnavailable, "Storage is temporarily unavailable")
)

// NewValidationError reports malformed input. Nothing has been changed.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewSequenceConflict reports a lost race on a sequence scope.
func NewSequenceConflict(format string, args ...any) *DomainError {
	return NewDomainError(CodeSequenceConflict, fmt.Sprintf(format, args...))
}

// NewIntegrityViolation reports a state that requires manual reconciliation.
func NewIntegrityViolation(format string, args ...any) *DomainError {
	return NewDomainError(CodeIntegrityViolation, fmt.Sprintf(format, args...))
}

// NewDependencyNotFound reports a missing referenced entity.
func NewDependencyNotFound(entityType, id string) *DomainError {
	return NewDomainError(CodeDependencyNotFound, fmt.Sprintf("%s %q not found", entityType, id))
}

// NewInvalidState reports an operation the entity's current state forbids.
func NewInvalidState(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidState, fmt.Sprintf(format, args...))
}

// NewConcurrencyConflict reports a stale write: the stored version moved on.
func NewConcurrencyConflict(format string, args ...any) *DomainError {
	return NewDomainError(CodeConcurrencyConflict, fmt.Sprintf(format, args...))
}

// NewStorageUnavailable reports a storage failure that may clear on its own
func NewStorageUnavailable(format string, args ...any) *DomainError {
	return NewDomainError(CodeStorageUnavailable, fmt.Sprintf(format, args...))
}

// ErrorCode extracts the domain error code from err, or "" if err is not a domain error
func ErrorCode(err error) string {
	var be *BatchError
	if errors.As(err, &be) {
		return CodePartialBatchFailure
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsRetryable reports whether the caller may retry with fresh state
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case CodeSequenceConflict, CodeConcurrencyConflict, CodeStorageUnavailable:
		return true
	}
	return false
}

// IsTransient reports whether the same write may simply be attempted again
func IsTransient(err error) bool {
	return ErrorCode(err) == CodeStorageUnavailable
}

// BatchError is returned when a chunked bulk operation stops part way.
// Every chunk before FailedChunk has been committed.
type BatchError struct {
	Committed   int
	Total       int
	FailedChunk int
	Cause       error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	return fmt.Sprintf("bulk operation stopped at chunk %d: %d of %d committed: %v",
		e.FailedChunk+1, e.Committed, e.Total, e.Cause)
}

// Unwrap returns the error that stopped the batch
func (e *BatchError) Unwrap() error {
	return e.Cause
}
