// Package oteladapters provides OpenTelemetry implementations of the observability interfaces
// used by package library and the journals (see journal.Logger and friends).
//
// Wire them like this:
//
//	lib, err := library.New(cfg,
//		library.WithContextualLogger(oteladapters.NewSlogBridgeLogger("librarian")),
//		library.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("librarian"))),
//		library.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("librarian"))),
//	)
package oteladapters
