package middleware

import (
	"context"
	"slices"

	"github.com/finledger/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling tags CPU samples taken while a request runs with its method and
// route, so profiles can be split per endpoint. skipPaths are left unlabeled.
func Profiling(skipPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || slices.Contains(skipPaths, route) {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), telemetry.HTTPLabels(c.Request.Method, route), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
