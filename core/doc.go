// Package core contains the value objects and domain events for the example:
// Record keeping in a small school library.
//
// The three managed entity kinds are Student, Book and Loan. Each of them defines
// its own identity through an Equal method and knows how to deep-copy itself through
// a Clone method, which is everything the registries need to keep their stored
// entries isolated from callers.
//
// Domain events like StudentRegistered and LoanReturned describe meaningful business
// occurrences. They are emitted after successful state changes and recorded in the
// audit journal. All of them implement the DomainEvent interface.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
