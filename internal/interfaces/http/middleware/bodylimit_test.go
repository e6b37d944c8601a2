package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	newRouter := func(limit int64) *gin.Engine {
		r := gin.New()
		r.Use(BodyLimit(limit))
		r.POST("/", func(c *gin.Context) {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.String(http.StatusOK, "%d", len(body))
		})
		return r
	}

	t.Run("accepts a body under the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(16).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7", w.Body.String())
	})

	t.Run("rejects by Content-Length", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(4).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("caps chunked bodies while reading", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		newRouter(4).ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("zero disables the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(0).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 1024))))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
