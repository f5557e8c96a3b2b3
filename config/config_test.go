package config_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-records/config"
	"github.com/AntonStoeckl/library-records/library"
)

func Test_Load_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, library.DefaultCapacity, cfg.Library.Capacity)
	assert.Equal(t, config.JournalMemory, cfg.Journal.Driver)
}

func Test_Load_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "librarian.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
library:
  capacity: 10
journal:
  driver: postgres
  adapter: sqlx
  table: audit_events
  migrate: false
postgres:
  dsn: postgres://u:p@db:5432/lib?sslmode=disable
  max_conn_lifetime: 30m
metrics:
  exporter: stdout
logging:
  format: json
`), 0o600))

	cfg, err := config.Load(viper.New(), file)

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Library.Capacity)
	assert.Equal(t, config.JournalPostgres, cfg.Journal.Driver)
	assert.Equal(t, config.AdapterSQLX, cfg.Journal.Adapter)
	assert.Equal(t, "audit_events", cfg.Journal.Table)
	assert.Equal(t, "postgres://u:p@db:5432/lib?sslmode=disable", cfg.Postgres.DSN)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.MaxConnLifetime)
	assert.Equal(t, config.LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, config.MetricsStdout, cfg.Metrics.Exporter)
	assert.Equal(t, config.Default().Postgres.MaxConns, cfg.Postgres.MaxConns)
}

func Test_Load_MissingFile(t *testing.T) {
	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func Test_Load_EnvOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "librarian.yaml")
	require.NoError(t, os.WriteFile(file, []byte("library:\n  capacity: 10\n"), 0o600))
	t.Setenv("LIBRARIAN_LIBRARY_CAPACITY", "7")
	t.Setenv("LIBRARIAN_JOURNAL_DRIVER", "none")

	cfg, err := config.Load(viper.New(), file)

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Library.Capacity)
	assert.Equal(t, config.JournalNone, cfg.Journal.Driver)
}

func Test_Load_Invalid(t *testing.T) {
	t.Setenv("LIBRARIAN_LIBRARY_CAPACITY", "0")

	_, err := config.Load(viper.New(), "")

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "library.capacity")
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "unknown driver", mutate: func(c *config.Config) { c.Journal.Driver = "mysql" }, field: "journal.driver"},
		{name: "unknown adapter", mutate: func(c *config.Config) {
			c.Journal.Driver = config.JournalPostgres
			c.Journal.Adapter = "gorm"
		}, field: "journal.adapter"},
		{name: "empty table", mutate: func(c *config.Config) {
			c.Journal.Driver = config.JournalPostgres
			c.Journal.Table = " "
		}, field: "journal.table"},
		{name: "empty dsn", mutate: func(c *config.Config) {
			c.Journal.Driver = config.JournalPostgres
			c.Postgres.DSN = ""
		}, field: "postgres.dsn"},
		{name: "pool bounds", mutate: func(c *config.Config) {
			c.Journal.Driver = config.JournalPostgres
			c.Postgres.MinConns = 20
		}, field: "min_conns"},
		{name: "migrate custom table", mutate: func(c *config.Config) {
			c.Journal.Driver = config.JournalPostgres
			c.Journal.Table = "audit_events"
		}, field: "journal.table"},
		{name: "unknown exporter", mutate: func(c *config.Config) { c.Tracing.Exporter = "jaeger" }, field: "tracing.exporter"},
		{name: "unknown metrics exporter", mutate: func(c *config.Config) { c.Metrics.Exporter = "prometheus" }, field: "metrics.exporter"},
		{name: "unknown level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, field: "logging.level"},
		{name: "unknown format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, field: "logging.format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)

			err := cfg.Validate()

			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func Test_Validate_ReportsAllViolations(t *testing.T) {
	cfg := config.Default()
	cfg.Library.Capacity = -1
	cfg.Logging.Format = "xml"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "library.capacity")
	assert.Contains(t, err.Error(), "logging.format")
}

func Test_PGXPoolConfig(t *testing.T) {
	pg := config.Default().Postgres
	pg.MaxConns = 7
	pg.MinConns = 1
	pg.ConnectTimeout = 3 * time.Second

	poolConfig, err := config.PGXPoolConfig(pg)

	require.NoError(t, err)
	assert.Equal(t, int32(7), poolConfig.MaxConns)
	assert.Equal(t, int32(1), poolConfig.MinConns)
	assert.Equal(t, time.Hour, poolConfig.MaxConnLifetime)
	assert.Equal(t, 3*time.Second, poolConfig.ConnConfig.ConnectTimeout)
	assert.Equal(t, "library", poolConfig.ConnConfig.Database)
}

func Test_PGXPoolConfig_InvalidDSN(t *testing.T) {
	pg := config.Default().Postgres
	pg.DSN = "postgres://%zz"

	_, err := config.PGXPoolConfig(pg)

	assert.Error(t, err)
}

func Test_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := config.NewLogger(config.LoggingConfig{Level: "info", Format: config.LogFormatJSON}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "operation", "create_loan")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown","operation":"create_loan"`)

	_, err = config.NewLogger(config.LoggingConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}

func Test_NewTracerProvider_Stdout(t *testing.T) {
	var buf bytes.Buffer

	provider, shutdown, err := config.NewTracerProvider(config.TracingConfig{Exporter: config.TraceStdout, ServiceName: "librarian"}, &buf)
	require.NoError(t, err)

	_, span := provider.Tracer("test").Start(context.Background(), "library.register_student")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "library.register_student")
	assert.Contains(t, buf.String(), "librarian")
}

func Test_NewTracerProvider_None(t *testing.T) {
	var buf bytes.Buffer

	provider, shutdown, err := config.NewTracerProvider(config.TracingConfig{Exporter: config.TraceNone}, &buf)
	require.NoError(t, err)

	_, span := provider.Tracer("test").Start(context.Background(), "op")
	span.End()

	assert.NoError(t, shutdown(context.Background()))
	assert.Empty(t, buf.String())
}

func Test_NewTracerProvider_Unknown(t *testing.T) {
	_, _, err := config.NewTracerProvider(config.TracingConfig{Exporter: "jaeger"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func Test_NewMeterProvider_Stdout(t *testing.T) {
	var buf bytes.Buffer

	provider, shutdown, err := config.NewMeterProvider(config.MetricsConfig{Exporter: config.MetricsStdout, ServiceName: "librarian"}, &buf)
	require.NoError(t, err)

	counter, err := provider.Meter("test").Int64Counter("library_operation_calls_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.Empty(t, buf.String(), "nothing is exported before shutdown")
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "library_operation_calls_total")
	assert.Contains(t, buf.String(), "librarian")
}

func Test_NewMeterProvider_None(t *testing.T) {
	var buf bytes.Buffer

	provider, shutdown, err := config.NewMeterProvider(config.MetricsConfig{Exporter: config.MetricsNone}, &buf)
	require.NoError(t, err)

	counter, err := provider.Meter("test").Int64Counter("calls")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.NoError(t, shutdown(context.Background()))
	assert.Empty(t, buf.String())
}

func Test_NewMeterProvider_Unknown(t *testing.T) {
	_, _, err := config.NewMeterProvider(config.MetricsConfig{Exporter: "prometheus"}, &bytes.Buffer{})

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
