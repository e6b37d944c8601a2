package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func findEntry(t *testing.T, logs *observer.ObservedLogs, msg string) observer.LoggedEntry {
	t.Helper()
	entries := logs.FilterMessage(msg).All()
	require.NotEmpty(t, entries, "no %q entry", msg)
	return entries[0]
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			router := gin.New()
			router.Use(func(c *gin.Context) {
				ctx, _ := WithRequestID(c.Request.Context(), zap.New(core), "req-7")
				c.Request = c.Request.WithContext(ctx)
			})
			router.Use(GinMiddleware(zap.New(core)))
			router.GET("/api/v1/invoices/:id", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/abc?x=1", nil))

			entry := findEntry(t, recorded, "HTTP Request")
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, "req-7", fields["request_id"])
			assert.Equal(t, "/api/v1/invoices/:id", fields["route"])
			assert.Equal(t, "x=1", fields["query"])
		})
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("ledger exploded") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"INTERNAL_ERROR"`)
	findEntry(t, recorded, "Panic recovered")
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(10*time.Millisecond))
	ctx, _ := WithActorID(context.Background(), zap.NewNop(), "staff-1")
	sql := func() (string, int64) { return `SELECT * FROM "invoices"`, 1 }

	gl.Trace(ctx, time.Now(), sql, nil)
	entry := findEntry(t, recorded, "SQL")
	assert.Equal(t, "staff-1", entry.ContextMap()["actor_id"])

	gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	findEntry(t, recorded, "Slow SQL")

	gl.Trace(ctx, time.Now(), sql, errors.New("deadlock detected"))
	findEntry(t, recorded, "SQL error")

	stale := func() (string, int64) {
		return `UPDATE "invoices" SET "balance"=600,"version"=4 WHERE version = 3 AND "id" = 'inv-1'`, 0
	}
	gl.Trace(ctx, time.Now(), stale, nil)
	findEntry(t, recorded, "Stale write: row version moved on")

	before := recorded.Len()
	gl.Trace(ctx, time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Equal(t, before, recorded.Len())

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(ctx, time.Now(), sql, nil)
	assert.Equal(t, before, recorded.Len())
}

func TestVersionedWrite(t *testing.T) {
	assert.True(t, versionedWrite.MatchString(`UPDATE "payments" SET "amount"=5 WHERE version = 1`))
	assert.True(t, versionedWrite.MatchString(`DELETE FROM "invoices" WHERE id = 'a' AND version = 2`))
	assert.False(t, versionedWrite.MatchString(`INSERT INTO "invoices" ("version") VALUES (1)`))
	assert.False(t, versionedWrite.MatchString(`UPDATE "customers" SET "name"='x' WHERE "id" = 'c'`))
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
