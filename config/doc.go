// Package config holds the settings of the librarian CLI and the factories built on them.
//
// Settings are resolved by viper in this order: flags, LIBRARIAN_* environment variables
// (dots become underscores, e.g. LIBRARIAN_LIBRARY_CAPACITY), an optional YAML file, defaults.
//
// The factories open PostgreSQL connections for each journal adapter (pgx.Pool, sql.DB, sqlx.DB),
// create the slog logger and the OpenTelemetry tracer provider.
package config
