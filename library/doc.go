// Package library is the entry point for managing the records of a small library.
//
// Library owns one registry per entity kind (students, books, loans), all created with the same
// configured capacity, and adds the rules that span registries: a loan can only be created for a
// registered student and an existing book.
//
// Every operation is instrumented with optional logging, metrics and tracing. After each successful
// change a domain event is written to an optional journal, which backs StudentHistory and BookHistory.
// The journal is best effort: if writing to it fails, the change still stands and the failure is
// logged and counted.
//
// A Library is meant for a single caller and is not safe for concurrent use.
package library
