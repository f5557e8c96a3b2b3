// Package postgresjournal provides a PostgreSQL implementation of journal.Journal.
//
// Events are stored in a single table (library_events by default) with the payload and metadata
// as JSONB. Predicates of a journal.Filter become JSONB containment checks (payload @> '{"key":"val"}'),
// event types an IN list and the occurred range plain comparisons. Results are ordered by the
// table's sequence number, which is the append order.
//
// Three connection types are supported through internal adapters:
//
//	j, err := postgresjournal.NewFromPGXPool(pool)
//	j, err := postgresjournal.NewFromSQLDB(db)
//	j, err := postgresjournal.NewFromSQLX(dbx)
//
// Migrate creates the default table with golang-migrate from embedded SQL files.
//
// Logging, metrics and tracing are optional and configured with the With... options.
package postgresjournal
