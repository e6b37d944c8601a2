package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_WritesToFileAndTees(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.log")
	core, recorded := observer.New(zapcore.InfoLevel)

	l, err := New(&Config{Level: "info", Format: "json", Output: path}, core)
	require.NoError(t, err)
	l.Info("Plan committed", PlanFields("plan-1", "VoidInvoice", "staff-1")...)
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"plan_id":"plan-1"`)
	assert.Contains(t, string(data), `"operation":"VoidInvoice"`)

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "staff-1", recorded.All()[0].ContextMap()["actor_id"])
}

func TestContextHelpers(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, _ = WithActorID(ctx, FromContext(ctx), "staff-9")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "staff-9", GetActorID(ctx))
	assert.Empty(t, GetActorID(context.Background()))

	WithTraceContext(ctx, FromContext(ctx)).Info("hello")
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "staff-9", fields["actor_id"])
	assert.NotContains(t, fields, "trace_id")
}

func TestWithTraceContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	WithTraceContext(ctx, base).Info("traced")
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
}

func TestPlanFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("plan", PlanFields("plan-1", "VOID_INVOICE", "staff-2")...)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "plan-1", fields["plan_id"])
	assert.Equal(t, "VOID_INVOICE", fields["operation"])
	assert.Equal(t, "staff-2", fields["actor_id"])
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}
