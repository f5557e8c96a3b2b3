package library

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-records/journal"
	"github.com/AntonStoeckl/library-records/registry"
)

// Interface aliases for convenience, so callers don't need to import package journal for wiring.

// Logger interface for basic logging.
type Logger = journal.Logger

// ContextualLogger interface for context-aware logging.
type ContextualLogger = journal.ContextualLogger

// MetricsCollector interface for collecting operation metrics.
type MetricsCollector = journal.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = journal.ContextualMetricsCollector

// TracingCollector interface for tracing library operations.
type TracingCollector = journal.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = journal.SpanContext

// Option defines a functional option for configuring a Library.
type Option func(*Library) error

// WithLogger sets the logger. Operations are logged at debug (queries) or info (changes) level,
// rejected operations at info, invalid calls at error and journal failures at warn level.
func WithLogger(logger Logger) Option {
	return func(l *Library) error {
		l.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger; it takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(l *Library) error {
		l.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector MetricsCollector) Option {
	return func(l *Library) error {
		l.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector. Every operation gets its own span.
func WithTracing(collector TracingCollector) Option {
	return func(l *Library) error {
		l.tracingCollector = collector
		return nil
	}
}

// WithJournal enables recording domain events to j.
func WithJournal(j journal.Journal) Option {
	return func(l *Library) error {
		l.journal = j
		return nil
	}
}

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Library) error {
		if now == nil {
			return fmt.Errorf("%w: clock must not be nil", registry.ErrInvalidArgument)
		}

		l.now = now

		return nil
	}
}
