package library

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-records/core"
	"github.com/AntonStoeckl/library-records/journal"
	"github.com/AntonStoeckl/library-records/registry"
	"github.com/AntonStoeckl/library-records/shell"
)

// Payload keys the history queries filter on.
const (
	studentKeyPredicate = "StudentKey"
	bookKeyPredicate    = "BookKey"
)

// StudentHistory returns all journaled events concerning student, oldest first.
// The student doesn't need to be registered anymore.
func (l *Library) StudentHistory(ctx context.Context, student *core.Student) (events core.DomainEvents, err error) {
	ctx, o := l.observeQuery(ctx, OperationStudentHistory)
	defer func() { o.finish(err) }()

	if student == nil {
		return nil, fmt.Errorf("%w: cannot query history of nil student", registry.ErrInvalidArgument)
	}

	return l.history(ctx, journal.P(studentKeyPredicate, student.Key()))
}

// BookHistory returns all journaled events concerning book, oldest first.
func (l *Library) BookHistory(ctx context.Context, book *core.Book) (events core.DomainEvents, err error) {
	ctx, o := l.observeQuery(ctx, OperationBookHistory)
	defer func() { o.finish(err) }()

	if book == nil {
		return nil, fmt.Errorf("%w: cannot query history of nil book", registry.ErrInvalidArgument)
	}

	return l.history(ctx, journal.P(bookKeyPredicate, book.Key()))
}

func (l *Library) history(ctx context.Context, predicate journal.FilterPredicate) (core.DomainEvents, error) {
	if l.journal == nil {
		return nil, ErrJournalDisabled
	}

	storableEvents, err := l.journal.Query(ctx, journal.BuildFilter().AnyPredicateOf(predicate).Finalize())
	if err != nil {
		return nil, err
	}

	return shell.DomainEventsFrom(storableEvents)
}

// RegistryStats describes the fill level of one registry.
type RegistryStats struct {
	Size     int
	Capacity int
}

// Stats describes the fill level of all registries.
type Stats struct {
	Students    RegistryStats
	Books       RegistryStats
	Loans       RegistryStats
	ActiveLoans int
}

// Stats returns the current sizes and capacities of the registries.
func (l *Library) Stats() Stats {
	active := 0
	for _, loan := range l.loans.List() {
		if !loan.IsReturned() {
			active++
		}
	}

	return Stats{
		Students:    RegistryStats{Size: l.students.Size(), Capacity: l.students.Capacity()},
		Books:       RegistryStats{Size: l.books.Size(), Capacity: l.books.Capacity()},
		Loans:       RegistryStats{Size: l.loans.Size(), Capacity: l.loans.Capacity()},
		ActiveLoans: active,
	}
}
