package oteladapters_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-records/oteladapters"
)

func newMetrics(t *testing.T) (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	collector, reader := newMetrics(t)
	labels := map[string]string{"operation": "create_loan", "status": "success"}

	collector.RecordDuration("library_operation_duration_seconds", 150*time.Millisecond, labels)
	collector.RecordDurationContext(context.Background(), "library_operation_duration_seconds", 50*time.Millisecond, labels)

	histogram := findMetric[metricdata.Histogram[float64]](t, collect(t, reader), "library_operation_duration_seconds")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(2), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.2, histogram.DataPoints[0].Sum, 0.001)

	expected := attribute.NewSet(attribute.String("operation", "create_loan"), attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	collector, reader := newMetrics(t)
	rejected := map[string]string{"operation": "create_loan", "status": "rejected"}

	collector.IncrementCounter("library_operation_calls_total", rejected)
	collector.IncrementCounterContext(context.Background(), "library_operation_calls_total", rejected)
	collector.IncrementCounter("library_operation_calls_total", map[string]string{"operation": "create_loan", "status": "success"})

	sum := findMetric[metricdata.Sum[int64]](t, collect(t, reader), "library_operation_calls_total")
	require.Len(t, sum.DataPoints, 2)
	assert.True(t, sum.IsMonotonic)

	total := int64(0)
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(3), total)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	collector, reader := newMetrics(t)
	labels := map[string]string{"registry": "loans"}

	collector.RecordValue("library_registry_size", 3, labels)
	collector.RecordValueContext(context.Background(), "library_registry_size", 2, labels)

	gauge := findMetric[metricdata.Gauge[float64]](t, collect(t, reader), "library_registry_size")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 2.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_InstrumentCreationFails(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	collector := oteladapters.NewMetricsCollector(&failingMeter{Meter: provider.Meter("test")})
	ctx := context.Background()

	assert.NotPanics(t, func() {
		collector.RecordDuration("broken", time.Second, nil)
		collector.RecordDurationContext(ctx, "broken", time.Second, nil)
		collector.IncrementCounter("broken", nil)
		collector.IncrementCounterContext(ctx, "broken", nil)
		collector.RecordValue("broken", 1, nil)
		collector.RecordValueContext(ctx, "broken", 1, nil)
	})

	for _, scopeMetrics := range collect(t, reader).ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			assert.NotEqual(t, "broken", m.Name)
		}
	}
}

type failingMeter struct {
	metric.Meter
}

var errInstrument = errors.New("instrument creation failed")

func (m *failingMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return nil, errInstrument
}

func (m *failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errInstrument
}

func (m *failingMeter) Float64Gauge(string, ...metric.Float64GaugeOption) (metric.Float64Gauge, error) {
	return nil, errInstrument
}

func findMetric[D metricdata.Aggregation](t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) D {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name != name {
				continue
			}

			data, ok := m.Data.(D)
			require.True(t, ok, "metric %s has unexpected type %T", name, m.Data)

			return data
		}
	}

	t.Fatalf("metric %s not found", name)

	var zero D

	return zero
}
