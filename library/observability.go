package library

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-records/registry"
)

const (
	// OperationDurationMetric tracks the duration of library operations.
	OperationDurationMetric = "library_operation_duration_seconds"
	// OperationCallsMetric counts library operations by outcome.
	OperationCallsMetric = "library_operation_calls_total"
	// RegistrySizeMetric reports the number of entries of a registry after it changed.
	RegistrySizeMetric = "library_registry_size"
	// JournalErrorsMetric counts domain events that could not be written to the journal.
	JournalErrorsMetric = "library_journal_errors_total"

	// StatusSuccess indicates the operation completed.
	StatusSuccess = "success"
	// StatusRejected indicates the operation was refused by a domain rule (duplicate, full, not found, ...).
	StatusRejected = "rejected"
	// StatusError indicates the caller passed an invalid argument.
	StatusError = "error"

	LogMsgOperationCompleted = "library operation completed"
	LogMsgOperationRejected  = "library operation rejected"
	LogMsgOperationFailed    = "library operation failed"
	LogMsgJournalFailed      = "recording domain event to journal failed"

	LogAttrOperation  = "operation"
	LogAttrStatus     = "status"
	LogAttrDurationMS = "duration_ms"
	LogAttrError      = "error"
	LogAttrEventType  = "event_type"
	LogAttrRegistry   = "registry"

	// SpanNamePrefix is followed by the operation name, e.g. "library.create_loan".
	SpanNamePrefix = "library."
)

// classifyStatus maps an operation result to StatusSuccess, StatusRejected or StatusError.
func classifyStatus(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, registry.ErrInvalidArgument):
		return StatusError
	default:
		return StatusRejected
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds.
func toMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// operationObserver covers one library operation with a span, metrics and a log line.
type operationObserver struct {
	l         *Library
	ctx       context.Context
	operation string
	query     bool
	span      SpanContext
	start     time.Time
}

func (l *Library) observe(ctx context.Context, operation string) (context.Context, *operationObserver) {
	return l.startObserver(ctx, operation, false)
}

func (l *Library) observeQuery(ctx context.Context, operation string) (context.Context, *operationObserver) {
	return l.startObserver(ctx, operation, true)
}

func (l *Library) startObserver(ctx context.Context, operation string, query bool) (context.Context, *operationObserver) {
	o := &operationObserver{l: l, operation: operation, query: query, start: time.Now()}

	if l.tracingCollector != nil {
		ctx, o.span = l.tracingCollector.StartSpan(ctx, SpanNamePrefix+operation, map[string]string{
			LogAttrOperation: operation,
		})
	}

	o.ctx = ctx

	return ctx, o
}

// finish records the outcome of the operation. It must be called exactly once, typically deferred.
func (o *operationObserver) finish(err error) {
	duration := time.Since(o.start)
	status := classifyStatus(err)

	o.finishSpan(status, duration, err)
	o.recordMetrics(status, duration)
	o.log(status, duration, err)
}

func (o *operationObserver) finishSpan(status string, duration time.Duration, err error) {
	if o.l.tracingCollector == nil || o.span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: strconv.FormatFloat(toMilliseconds(duration), 'f', 2, 64),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	o.l.tracingCollector.FinishSpan(o.span, status, attrs)
}

func (o *operationObserver) recordMetrics(status string, duration time.Duration) {
	collector := o.l.metricsCollector
	if collector == nil {
		return
	}

	labels := map[string]string{
		LogAttrOperation: o.operation,
		LogAttrStatus:    status,
	}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, OperationDurationMetric, duration, labels)
		contextual.IncrementCounterContext(o.ctx, OperationCallsMetric, labels)

		return
	}

	collector.RecordDuration(OperationDurationMetric, duration, labels)
	collector.IncrementCounter(OperationCallsMetric, labels)
}

func (o *operationObserver) log(status string, duration time.Duration, err error) {
	args := []any{
		LogAttrOperation, o.operation,
		LogAttrStatus, status,
		LogAttrDurationMS, toMilliseconds(duration),
	}

	switch status {
	case StatusSuccess:
		if o.query {
			o.l.logDebug(o.ctx, LogMsgOperationCompleted, args...)
		} else {
			o.l.logInfo(o.ctx, LogMsgOperationCompleted, args...)
		}
	case StatusRejected:
		o.l.logInfo(o.ctx, LogMsgOperationRejected, append(args, LogAttrError, err.Error())...)
	default:
		o.l.logError(o.ctx, LogMsgOperationFailed, append(args, LogAttrError, err.Error())...)
	}
}

func (l *Library) recordRegistrySize(ctx context.Context, name string, size int) {
	if l.metricsCollector == nil {
		return
	}

	labels := map[string]string{LogAttrRegistry: name}

	if contextual, ok := l.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, RegistrySizeMetric, float64(size), labels)
		return
	}

	l.metricsCollector.RecordValue(RegistrySizeMetric, float64(size), labels)
}

func (l *Library) recordJournalError(ctx context.Context, eventType string, err error) {
	l.logWarn(ctx, LogMsgJournalFailed, LogAttrEventType, eventType, LogAttrError, err.Error())

	if l.metricsCollector == nil {
		return
	}

	labels := map[string]string{LogAttrEventType: eventType}

	if contextual, ok := l.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, JournalErrorsMetric, labels)
		return
	}

	l.metricsCollector.IncrementCounter(JournalErrorsMetric, labels)
}

func (l *Library) logDebug(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.DebugContext(ctx, msg, args...)
	} else if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

func (l *Library) logInfo(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.InfoContext(ctx, msg, args...)
	} else if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

func (l *Library) logWarn(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.WarnContext(ctx, msg, args...)
	} else if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}

func (l *Library) logError(ctx context.Context, msg string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.ErrorContext(ctx, msg, args...)
	} else if l.logger != nil {
		l.logger.Error(msg, args...)
	}
}
