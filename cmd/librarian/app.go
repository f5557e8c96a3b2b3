package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/AntonStoeckl/library-records/config"
	"github.com/AntonStoeckl/library-records/journal"
	"github.com/AntonStoeckl/library-records/journal/postgresjournal"
	"github.com/AntonStoeckl/library-records/library"
	"github.com/AntonStoeckl/library-records/oteladapters"
)

const instrumentationName = "github.com/AntonStoeckl/library-records/cmd/librarian"

type closeFunc func(ctx context.Context) error

// app is a Library wired with the journal, logger, tracer and meter selected by the config.
type app struct {
	lib     *library.Library
	logger  *slog.Logger
	closers []closeFunc
}

func newApp(ctx context.Context, cfg *config.Config, errOut io.Writer) (*app, error) {
	a := &app{}

	if err := a.wire(ctx, cfg, errOut); err != nil {
		return nil, errors.Join(err, a.close(ctx))
	}

	return a, nil
}

// wire registers a closer for everything it acquires, so a partial setup can be released.
func (a *app) wire(ctx context.Context, cfg *config.Config, errOut io.Writer) error {
	logger, err := config.NewLogger(cfg.Logging, errOut)
	if err != nil {
		return err
	}
	a.logger = logger

	tracerProvider, shutdownTracing, err := config.NewTracerProvider(cfg.Tracing, errOut)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeFunc(shutdownTracing))

	meterProvider, shutdownMetrics, err := config.NewMeterProvider(cfg.Metrics, errOut)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeFunc(shutdownMetrics))

	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())
	tracing := oteladapters.NewTracingCollector(tracerProvider.Tracer(instrumentationName))
	metrics := oteladapters.NewMetricsCollector(meterProvider.Meter(instrumentationName))

	options := []library.Option{
		library.WithContextualLogger(contextualLogger),
		library.WithTracing(tracing),
		library.WithMetrics(metrics),
	}

	j, err := a.openJournal(ctx, cfg,
		postgresjournal.WithContextualLogger(contextualLogger),
		postgresjournal.WithTracing(tracing),
		postgresjournal.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	if j != nil {
		options = append(options, library.WithJournal(j))
	}

	a.lib, err = library.New(library.Config{Capacity: cfg.Library.Capacity}, options...)

	return err
}

// close releases everything in reverse order of acquisition.
func (a *app) close(ctx context.Context) error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}

	a.closers = nil

	return errors.Join(errs...)
}

// openJournal returns nil for the "none" driver.
func (a *app) openJournal(ctx context.Context, cfg *config.Config, options ...postgresjournal.Option) (journal.Journal, error) {
	switch cfg.Journal.Driver {
	case config.JournalNone:
		return nil, nil
	case config.JournalMemory:
		return journal.NewMemoryJournal(journal.WithMemoryLogger(a.logger)), nil
	case config.JournalPostgres:
		return a.openPostgresJournal(ctx, cfg, append([]postgresjournal.Option{
			postgresjournal.WithTableName(cfg.Journal.Table),
		}, options...)...)
	default:
		return nil, fmt.Errorf("%w: journal.driver: unknown driver %q", config.ErrInvalidConfig, cfg.Journal.Driver)
	}
}

func (a *app) openPostgresJournal(ctx context.Context, cfg *config.Config, options ...postgresjournal.Option) (journal.Journal, error) {
	switch cfg.Journal.Adapter {
	case config.AdapterPGX:
		pool, err := config.NewPGXPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })

		if cfg.Journal.Migrate {
			db := stdlib.OpenDBFromPool(pool)
			err := postgresjournal.Migrate(ctx, db)
			_ = db.Close()
			if err != nil {
				return nil, err
			}
		}

		return postgresjournal.NewFromPGXPool(pool, options...)

	case config.AdapterSQL:
		db, err := config.NewSQLDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })

		if cfg.Journal.Migrate {
			if err := postgresjournal.Migrate(ctx, db); err != nil {
				return nil, err
			}
		}

		return postgresjournal.NewFromSQLDB(db, options...)

	case config.AdapterSQLX:
		db, err := config.NewSQLX(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })

		if cfg.Journal.Migrate {
			if err := postgresjournal.Migrate(ctx, db.DB); err != nil {
				return nil, err
			}
		}

		return postgresjournal.NewFromSQLX(db, options...)

	default:
		return nil, fmt.Errorf("%w: journal.adapter: unknown adapter %q", config.ErrInvalidConfig, cfg.Journal.Adapter)
	}
}
