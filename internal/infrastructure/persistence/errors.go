package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/finledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver failures onto domain error codes.
// Domain errors and not-found pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: %v", shared.NewStorageUnavailable("storage is temporarily unavailable"), err)
	}
	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "too many connections")
}
