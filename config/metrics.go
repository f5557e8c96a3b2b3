package config

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// NewMeterProvider creates the meter provider selected by cfg.Exporter.
// With "stdout" the collected metrics are written to w as JSON when shutdown is called.
func NewMeterProvider(cfg MetricsConfig, w io.Writer) (metric.MeterProvider, ShutdownFunc, error) {
	switch cfg.Exporter {
	case MetricsNone, "":
		return noop.NewMeterProvider(), func(context.Context) error { return nil }, nil

	case MetricsStdout:
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("creating stdout metric exporter: %w", err)
		}

		provider := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
			sdkmetric.WithResource(resource.NewSchemaless(semconv.ServiceName(cfg.ServiceName))),
		)

		return provider, provider.Shutdown, nil

	default:
		return nil, nil, fmt.Errorf("%w: metrics.exporter: unknown exporter %q", ErrInvalidConfig, cfg.Exporter)
	}
}
