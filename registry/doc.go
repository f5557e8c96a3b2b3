// Package registry holds the fixed-capacity record collections of the library.
//
// A Registry stores up to a configured number of entities in insertion order. Uniqueness is
// decided by the entity's own Equal method, lookups are linear scans where the first match wins,
// and deleting an entry shifts all following entries one slot to the left so the occupied slots
// always form a contiguous prefix.
//
// Every value crossing the registry boundary is copied: Insert stores a clone of its argument,
// Search and List hand out clones of the stored entries. Callers can never alias registry state.
//
// LoanRegistry builds on the same backbone and adds the loan lifecycle (return) as well as
// filtered queries by student, book and month.
//
// Registries are not safe for concurrent use.
package registry
