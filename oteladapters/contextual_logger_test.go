package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/library-records/oteladapters"
	"github.com/AntonStoeckl/library-records/testutil/testdoubles"
)

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message"`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message"`)
}

func Test_SlogBridgeLogger_Attributes(t *testing.T) {
	spy := testdoubles.NewLogHandlerSpy(false)
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(spy)

	logger.InfoContext(context.Background(), "library operation completed",
		"operation", "create_loan",
		"duration_ms", 1.5,
	)

	assert.True(t, spy.HasLogWithMessage(slog.LevelInfo, "library operation completed").
		WithAttrValue("operation", "create_loan").
		WithDurationMS().
		Assert())
}

func Test_SlogBridgeLogger_GlobalProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("librarian")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "message", "key", "value")
	})
}

func Test_OTelLogger_DoesNotPanic(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("test"))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug message", "string", "text", "number", 123)
		logger.InfoContext(ctx, "info message", "float", 45.67, "boolean", false)
		logger.WarnContext(ctx, "warn message", "key1", "value1", "key2")
		logger.ErrorContext(ctx, "error message", 42, "non-string key")
	})
}
