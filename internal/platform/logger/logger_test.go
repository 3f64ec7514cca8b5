package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/abgdnv/productcatalog/internal/platform/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
)

func Test_ToLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "", want: slog.LevelInfo},
		{in: "verbose", want: slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ToLevel(tc.in))
		})
	}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func Test_ContextHandler_AddsRequestID(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")
	ctx := web.WithRequestID(context.Background(), "req-42")
	// when
	log.InfoContext(ctx, "hello", "key", "value")
	// then
	entry := decode(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "value", entry["key"])
}

func Test_ContextHandler_AddsTraceID(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")
	ctx, span := tracesdk.NewTracerProvider().Tracer("test").Start(context.Background(), "op")
	defer span.End()
	// when
	log.InfoContext(ctx, "traced")
	// then
	entry := decode(t, &buf)
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
}

func Test_ContextHandler_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.InfoContext(context.Background(), "hello")

	entry := decode(t, &buf)
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "trace_id")
}

func Test_ContextHandler_KeepsAttrsAndGroups(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info").With("component", "test").WithGroup("grp")
	ctx := web.WithRequestID(context.Background(), "req-7")
	// when
	log.InfoContext(ctx, "grouped", "k", 1)
	// then
	entry := decode(t, &buf)
	assert.Equal(t, "test", entry["component"])
	grp, ok := entry["grp"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, grp["k"])
	assert.Equal(t, "req-7", grp["request_id"])
}

func Test_NewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	entry := decode(t, &buf)
	assert.Equal(t, "kept", entry["msg"])
	assert.NotContains(t, entry, "source", "source is only added at debug level")
}

func Test_NewWithWriter_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	log.Debug("trace me")

	entry := decode(t, &buf)
	assert.Contains(t, entry, "source")
}
