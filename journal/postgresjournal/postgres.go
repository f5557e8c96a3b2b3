package postgresjournal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-records/journal"
	"github.com/AntonStoeckl/library-records/journal/postgresjournal/internal/adapters"
)

const (
	DefaultTableName = "library_events"

	colSequenceNumber = "sequence_number"
	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	dialectPostgres   = "postgres"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
	payloadContains   = colPayload + " @> ?::jsonb"
)

// Journal is a journal.Journal backed by a PostgreSQL table.
type Journal struct {
	db               adapters.DBAdapter
	tableName        string
	logger           journal.Logger
	contextualLogger journal.ContextualLogger
	metricsCollector journal.MetricsCollector
	tracingCollector journal.TracingCollector
}

type queryResultRow struct {
	eventType  string
	occurredAt time.Time
	payload    []byte
	metadata   []byte
}

// NewFromPGXPool creates a new Journal using a pgx Pool with optional configuration.
func NewFromPGXPool(db *pgxpool.Pool, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewPGXAdapter(db), options...)
}

// NewFromSQLDB creates a new Journal using a sql.DB with optional configuration.
func NewFromSQLDB(db *sql.DB, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLAdapter(db), options...)
}

// NewFromSQLX creates a new Journal using a sqlx.DB with optional configuration.
func NewFromSQLX(db *sqlx.DB, options ...Option) (*Journal, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newJournal(adapters.NewSQLXAdapter(db), options...)
}

func newJournal(db adapters.DBAdapter, options ...Option) (*Journal, error) {
	j := &Journal{
		db:        db,
		tableName: DefaultTableName,
	}

	for _, option := range options {
		if err := option(j); err != nil {
			return nil, err
		}
	}

	return j, nil
}

// Query retrieves all events matching filter in append order.
func (j *Journal) Query(ctx context.Context, filter journal.Filter) (journal.StorableEvents, error) {
	tracer, ctx := j.startTracing(ctx, operationQuery, nil)
	metrics := j.startMetrics(ctx, operationQuery)
	start := time.Now()

	sqlQuery, err := j.buildSelectQuery(filter)
	if err != nil {
		j.logErrorContext(ctx, logMsgBuildSelectQueryFailed, err)
		metrics.recordError(errorTypeBuildQuery, time.Since(start))
		tracer.finishError(errorTypeBuildQuery, time.Since(start))

		return nil, err
	}

	rows, err := j.db.Query(ctx, sqlQuery)
	j.logSQLContext(ctx, sqlQuery, operationQuery, time.Since(start))
	if err != nil {
		j.logErrorContext(ctx, logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		metrics.recordError(errorTypeDatabaseQuery, time.Since(start))
		tracer.finishError(errorTypeDatabaseQuery, time.Since(start))

		return nil, errors.Join(journal.ErrQueryingEventsFailed, err)
	}
	defer j.closeRows(ctx, rows)

	events, errorType, err := j.processQueryResults(ctx, rows)
	duration := time.Since(start)
	if err != nil {
		metrics.recordError(errorType, duration)
		tracer.finishError(errorType, duration)

		return nil, err
	}

	j.logOperationContext(ctx, logMsgQueryCompleted, logAttrEventCount, len(events), logAttrDurationMS, toMilliseconds(duration))
	metrics.recordSuccess(len(events), duration)
	tracer.finishSuccess(len(events), duration)

	return events, nil
}

func (j *Journal) processQueryResults(ctx context.Context, rows adapters.DBRows) (journal.StorableEvents, string, error) {
	events := make(journal.StorableEvents, 0)
	row := queryResultRow{}

	for rows.Next() {
		if err := rows.Scan(&row.eventType, &row.occurredAt, &row.payload, &row.metadata); err != nil {
			j.logErrorContext(ctx, logMsgScanRowFailed, err)
			return nil, errorTypeRowScan, errors.Join(journal.ErrScanningDBRowFailed, err)
		}

		event, err := journal.BuildStorableEvent(row.eventType, row.occurredAt, row.payload, row.metadata)
		if err != nil {
			j.logErrorContext(ctx, logMsgBuildStorableEventFailed, err, logAttrEventType, row.eventType)
			return nil, errorTypeBuildStorableEvent, errors.Join(journal.ErrBuildingStorableEventFailed, err)
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		j.logErrorContext(ctx, logMsgDBQueryFailed, err)
		return nil, errorTypeDatabaseQuery, errors.Join(journal.ErrQueryingEventsFailed, err)
	}

	return events, "", nil
}

func (j *Journal) closeRows(ctx context.Context, rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		j.logWarnContext(ctx, logMsgCloseRowsFailed, err)
	}
}

// Append inserts one or multiple events with a single statement.
func (j *Journal) Append(ctx context.Context, event journal.StorableEvent, additionalEvents ...journal.StorableEvent) error {
	allEvents := append(journal.StorableEvents{event}, additionalEvents...)

	tracer, ctx := j.startTracing(ctx, operationAppend, map[string]string{
		spanAttrEventType:  event.EventType,
		spanAttrEventCount: formatInt(len(allEvents)),
	})
	metrics := j.startMetrics(ctx, operationAppend)
	start := time.Now()

	sqlQuery, err := j.buildInsertQuery(allEvents)
	if err != nil {
		j.logErrorContext(ctx, logMsgBuildInsertQueryFailed, err, logAttrEventCount, len(allEvents))
		metrics.recordError(errorTypeBuildQuery, time.Since(start))
		tracer.finishError(errorTypeBuildQuery, time.Since(start))

		return err
	}

	result, err := j.db.Exec(ctx, sqlQuery)
	j.logSQLContext(ctx, sqlQuery, operationAppend, time.Since(start))
	if err != nil {
		j.logErrorContext(ctx, logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		metrics.recordError(errorTypeDatabaseExec, time.Since(start))
		tracer.finishError(errorTypeDatabaseExec, time.Since(start))

		return errors.Join(journal.ErrAppendingEventFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	duration := time.Since(start)
	if err != nil {
		j.logErrorContext(ctx, logMsgRowsAffectedFailed, err)
		metrics.recordError(errorTypeRowsAffected, duration)
		tracer.finishError(errorTypeRowsAffected, duration)

		return errors.Join(journal.ErrGettingRowsAffectedFailed, err)
	}

	j.logOperationContext(ctx, logMsgEventsAppended, logAttrEventCount, len(allEvents), logAttrRowsAffected, rowsAffected, logAttrDurationMS, toMilliseconds(duration))
	metrics.recordSuccess(len(allEvents), duration)
	tracer.finishSuccess(int(rowsAffected), duration)

	return nil
}

func (j *Journal) buildSelectQuery(filter journal.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(j.tableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata).
		Order(goqu.I(colSequenceNumber).Asc())

	whereExpressions, err := whereExpressionsFor(filter)
	if err != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, err)
	}

	if len(whereExpressions) > 0 {
		selectStmt = selectStmt.Where(whereExpressions...)
	}

	sqlQuery, _, err := selectStmt.ToSQL()
	if err != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

func (j *Journal) buildInsertQuery(events journal.StorableEvents) (string, error) {
	rows := make([][]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, []any{
			event.EventType,
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, event.PayloadJSON),
			goqu.L(castJsonb, event.MetadataJSON),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(j.tableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		Vals(rows...)

	sqlQuery, _, err := insertStmt.ToSQL()
	if err != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, err)
	}

	return sqlQuery, nil
}

// whereExpressionsFor translates a filter into expressions that are ANDed by goqu.
func whereExpressionsFor(filter journal.Filter) ([]goqu.Expression, error) {
	expressions := make([]goqu.Expression, 0, 4)

	if eventTypes := filter.EventTypes(); len(eventTypes) > 0 {
		expressions = append(expressions, goqu.C(colEventType).In(eventTypes))
	}

	if predicates := filter.Predicates(); len(predicates) > 0 {
		predicateExpressions := make([]goqu.Expression, 0, len(predicates))

		for _, predicate := range predicates {
			containment, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(
				map[string]string{predicate.Key(): predicate.Val()},
			)
			if err != nil {
				return nil, err
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, containment))
		}

		if filter.AllPredicatesMustMatch() {
			expressions = append(expressions, goqu.And(predicateExpressions...))
		} else {
			expressions = append(expressions, goqu.Or(predicateExpressions...))
		}
	}

	if !filter.OccurredFrom().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		expressions = append(expressions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	return expressions, nil
}
