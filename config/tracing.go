package config

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ShutdownFunc flushes and stops a provider.
type ShutdownFunc func(ctx context.Context) error

// NewTracerProvider creates the tracer provider selected by cfg.Exporter.
// With "stdout" every finished span is written to w as JSON; with "none" spans are dropped.
func NewTracerProvider(cfg TracingConfig, w io.Writer) (trace.TracerProvider, ShutdownFunc, error) {
	switch cfg.Exporter {
	case TraceNone, "":
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil

	case TraceStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("creating stdout trace exporter: %w", err)
		}

		provider := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(resource.NewSchemaless(semconv.ServiceName(cfg.ServiceName))),
		)

		return provider, provider.Shutdown, nil

	default:
		return nil, nil, fmt.Errorf("%w: tracing.exporter: unknown exporter %q", ErrInvalidConfig, cfg.Exporter)
	}
}
