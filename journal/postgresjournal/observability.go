package postgresjournal

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-records/journal"
)

const (
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "journal operation: "

	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrEventType    = "event_type"
	logAttrEventCount   = "event_count"
	logAttrRowsAffected = "rows_affected"
	logAttrDurationMS   = "duration_ms"

	operationQuery  = "query"
	operationAppend = "append"

	statusSuccess = "success"
	statusError   = "error"

	metricQueryDuration  = "journal_query_duration_seconds"
	metricAppendDuration = "journal_append_duration_seconds"
	metricEventsQueried  = "journal_events_queried_total"
	metricEventsAppended = "journal_events_appended_total"
	metricDatabaseErrors = "journal_database_errors_total"

	spanNamePrefix     = "journal."
	spanAttrOperation  = "operation"
	spanAttrEventType  = "event_type"
	spanAttrEventCount = "event_count"
	spanAttrErrorType  = "error_type"
	spanAttrDurationMS = "duration_ms"
	labelStatus        = "status"

	errorTypeBuildQuery         = "build_query"
	errorTypeDatabaseQuery      = "database_query"
	errorTypeDatabaseExec       = "database_exec"
	errorTypeRowScan            = "row_scan"
	errorTypeBuildStorableEvent = "build_storable_event"
	errorTypeRowsAffected       = "rows_affected"
)

// === Logging ===
// The contextual logger wins when both are configured.

func (j *Journal) logSQLContext(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	switch {
	case j.contextualLogger != nil:
		j.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	case j.logger != nil:
		j.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

func (j *Journal) logOperationContext(ctx context.Context, action string, args ...any) {
	switch {
	case j.contextualLogger != nil:
		j.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	case j.logger != nil:
		j.logger.Info(logMsgOperation+action, args...)
	}
}

func (j *Journal) logWarnContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	switch {
	case j.contextualLogger != nil:
		j.contextualLogger.WarnContext(ctx, message, allArgs...)
	case j.logger != nil:
		j.logger.Warn(message, allArgs...)
	}
}

func (j *Journal) logErrorContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	switch {
	case j.contextualLogger != nil:
		j.contextualLogger.ErrorContext(ctx, message, allArgs...)
	case j.logger != nil:
		j.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// === Metrics Observer ===

type metricsObserver struct {
	j         *Journal
	ctx       context.Context
	operation string
}

func (j *Journal) startMetrics(ctx context.Context, operation string) *metricsObserver {
	return &metricsObserver{j: j, ctx: ctx, operation: operation}
}

func (mo *metricsObserver) recordSuccess(eventCount int, duration time.Duration) {
	if mo.j.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: mo.operation, labelStatus: statusSuccess}

	durationMetric, countMetric := metricQueryDuration, metricEventsQueried
	if mo.operation == operationAppend {
		durationMetric, countMetric = metricAppendDuration, metricEventsAppended
	}

	mo.recordDuration(durationMetric, duration, labels)
	mo.recordValue(countMetric, float64(eventCount), labels)
}

func (mo *metricsObserver) recordError(errorType string, duration time.Duration) {
	if mo.j.metricsCollector == nil {
		return
	}

	durationMetric := metricQueryDuration
	if mo.operation == operationAppend {
		durationMetric = metricAppendDuration
	}

	mo.recordDuration(durationMetric, duration, map[string]string{spanAttrOperation: mo.operation, labelStatus: statusError})
	mo.incrementCounter(metricDatabaseErrors, map[string]string{
		spanAttrOperation: mo.operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

func (mo *metricsObserver) recordDuration(metric string, duration time.Duration, labels map[string]string) {
	if contextual, ok := mo.j.metricsCollector.(journal.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(mo.ctx, metric, duration, labels)
		return
	}

	mo.j.metricsCollector.RecordDuration(metric, duration, labels)
}

func (mo *metricsObserver) recordValue(metric string, value float64, labels map[string]string) {
	if contextual, ok := mo.j.metricsCollector.(journal.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(mo.ctx, metric, value, labels)
		return
	}

	mo.j.metricsCollector.RecordValue(metric, value, labels)
}

func (mo *metricsObserver) incrementCounter(metric string, labels map[string]string) {
	if contextual, ok := mo.j.metricsCollector.(journal.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(mo.ctx, metric, labels)
		return
	}

	mo.j.metricsCollector.IncrementCounter(metric, labels)
}

// === Tracing Observer ===

type tracingObserver struct {
	j    *Journal
	span journal.SpanContext
}

func (j *Journal) startTracing(ctx context.Context, operation string, attrs map[string]string) (*tracingObserver, context.Context) {
	if j.tracingCollector == nil {
		return &tracingObserver{j: j}, ctx
	}

	spanAttrs := map[string]string{spanAttrOperation: operation}
	for k, v := range attrs {
		spanAttrs[k] = v
	}

	newCtx, span := j.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, spanAttrs)

	return &tracingObserver{j: j, span: span}, newCtx
}

func (to *tracingObserver) finishSuccess(eventCount int, duration time.Duration) {
	if to.span == nil {
		return
	}

	to.j.tracingCollector.FinishSpan(to.span, statusSuccess, map[string]string{
		spanAttrEventCount: formatInt(eventCount),
		spanAttrDurationMS: strconv.FormatFloat(toMilliseconds(duration), 'f', 2, 64),
	})
}

func (to *tracingObserver) finishError(errorType string, duration time.Duration) {
	if to.span == nil {
		return
	}

	to.j.tracingCollector.FinishSpan(to.span, statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: strconv.FormatFloat(toMilliseconds(duration), 'f', 2, 64),
	})
}
