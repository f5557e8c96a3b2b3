// Package adapters provide database adapter implementations for the PostgreSQL journal.
//
// Supported connection types are pgxpool.Pool, sql.DB and sqlx.DB. All of them are hidden behind
// the DBAdapter interface so the journal builds its SQL once and runs it on any of them.
package adapters
