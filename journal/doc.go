// Package journal provides an append-only audit trail of library domain events.
//
// The journal records what happened to the registries (students registered, books removed,
// loans created or returned, ...) so that the history of a student or a book can be looked up
// later. It is write-behind only: the registries stay the single source of truth and are never
// rebuilt from the journal.
//
// Events are stored as StorableEvent, a DTO built on scalars and JSON so the journal stays
// agnostic of the domain event types. Queries are described with a Filter:
//
//	filter := journal.BuildFilter().
//		AnyEventTypeOf(core.LoanCreatedEventType, core.LoanReturnedEventType).
//		AnyPredicateOf(journal.P("StudentKey", student.Key())).
//		Finalize()
//
//	events, err := j.Query(ctx, filter)
//
// MemoryJournal keeps events in process memory; package postgresjournal stores them in PostgreSQL.
// Both are safe for concurrent use.
package journal
