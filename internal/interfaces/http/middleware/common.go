// Package middleware provides the gin middleware of the ledger API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/finledger/backend/internal/infrastructure/logger"
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gin context keys set by this package
const (
	RequestIDKey = "request_id"
	ActorIDKey   = "actor_id"
)

// MaxRequestIDLength bounds caller-supplied request IDs
const MaxRequestIDLength = 128

// RequestID reuses the caller's request ID from header or generates one.
// The ID is echoed back and attached to the request's logger.
func RequestID(header string, log *zap.Logger) gin.HandlerFunc {
	if header == "" {
		header = "X-Request-ID"
	}
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if len(id) > MaxRequestIDLength {
			id = id[:MaxRequestIDLength]
		}
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(header, id)

		ctx, _ := logger.WithRequestID(c.Request.Context(), requestLogger(c.Request.Context(), log), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Actor takes the acting user from header. Authentication happens in the
// gateway in front of the service, so the header is trusted; without it
// the request acts as defaultActor.
func Actor(header, defaultActor string) gin.HandlerFunc {
	if header == "" {
		header = "X-User-ID"
	}
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(header))
		if actor == "" {
			actor = defaultActor
		}
		c.Set(ActorIDKey, actor)
		ctx := c.Request.Context()
		ctx, _ = logger.WithActorID(ctx, logger.FromContext(ctx), actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requestLogger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); ok {
		return l
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

// GetRequestID returns the request ID set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// GetActorID returns the actor set by Actor
func GetActorID(c *gin.Context) string {
	return c.GetString(ActorIDKey)
}

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       time.Duration
}

// CORS allows the configured origins. An empty origin list sets no CORS headers at all.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	wildcard := slices.Contains(cfg.AllowOrigins, "*")
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := ""
		switch {
		case wildcard:
			allowed = "*"
		case origin != "" && slices.Contains(cfg.AllowOrigins, origin):
			allowed = origin
		}
		if allowed != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining")
			if cfg.MaxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
			}
			if allowed != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Secure sets the response headers every JSON API should send
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		c.Next()
	}
}

// Timeout bounds the request context. A handler that runs past the deadline
// without writing gets a REQUEST_TIMEOUT response.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !c.Writer.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, dto.NewErrorResponse(
				dto.ErrCodeTimeout, "request timed out", GetRequestID(c), nil))
		}
	}
}
