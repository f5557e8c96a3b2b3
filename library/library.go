package library

import (
	"context"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-records/core"
	"github.com/AntonStoeckl/library-records/journal"
	"github.com/AntonStoeckl/library-records/registry"
	"github.com/AntonStoeckl/library-records/shell"
)

// DefaultCapacity is the capacity of each registry unless configured otherwise.
const DefaultCapacity = 43

// Operation names used for spans, metric labels and log attributes.
const (
	OperationRegisterStudent = "register_student"
	OperationRegisterBook    = "register_book"
	OperationCreateLoan      = "create_loan"
	OperationReturnLoan      = "return_loan"
	OperationSearchStudent   = "search_student"
	OperationSearchBook      = "search_book"
	OperationSearchLoan      = "search_loan"
	OperationDeleteStudent   = "delete_student"
	OperationDeleteBook      = "delete_book"
	OperationDeleteLoan      = "delete_loan"
	OperationListStudents    = "list_students"
	OperationListBooks       = "list_books"
	OperationListLoans       = "list_loans"
	OperationLoansByStudent  = "loans_by_student"
	OperationLoansByBook     = "loans_by_book"
	OperationLoansByMonth    = "loans_by_month"
	OperationStudentHistory  = "student_history"
	OperationBookHistory     = "book_history"
)

// Registry names used as the "registry" label of RegistrySizeMetric.
const (
	RegistryStudents = "students"
	RegistryBooks    = "books"
	RegistryLoans    = "loans"
)

// Config holds the settings of a Library.
type Config struct {
	// Capacity is the maximum number of entries of each registry.
	Capacity int
}

// Library manages students, books and the loans between them.
type Library struct {
	students *registry.StudentRegistry
	books    *registry.BookRegistry
	loans    *registry.LoanRegistry

	journal          journal.Journal
	now              func() time.Time
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// New creates a Library with three empty registries of cfg.Capacity each.
func New(cfg Config, options ...Option) (*Library, error) {
	students, err := registry.NewStudentRegistry(cfg.Capacity)
	if err != nil {
		return nil, err
	}

	books, err := registry.NewBookRegistry(cfg.Capacity)
	if err != nil {
		return nil, err
	}

	loans, err := registry.NewLoanRegistry(cfg.Capacity)
	if err != nil {
		return nil, err
	}

	l := &Library{
		students: students,
		books:    books,
		loans:    loans,
		now:      time.Now,
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

/***** Students *****/

// RegisterStudent stores a copy of student.
func (l *Library) RegisterStudent(ctx context.Context, student *core.Student) (err error) {
	ctx, o := l.observe(ctx, OperationRegisterStudent)
	defer func() { o.finish(err) }()

	if err = l.students.Insert(student); err != nil {
		return err
	}

	l.recordRegistrySize(ctx, RegistryStudents, l.students.Size())
	l.publish(ctx, core.BuildStudentRegistered(*student, l.now()))

	return nil
}

// SearchStudent returns a copy of the registered student with the same email, or nil.
func (l *Library) SearchStudent(ctx context.Context, student *core.Student) (found *core.Student, err error) {
	_, o := l.observeQuery(ctx, OperationSearchStudent)
	defer func() { o.finish(err) }()

	return l.students.Search(student)
}

// DeleteStudent removes the registered student with the same email.
// Loans referencing the student are kept.
func (l *Library) DeleteStudent(ctx context.Context, student *core.Student) (err error) {
	ctx, o := l.observe(ctx, OperationDeleteStudent)
	defer func() { o.finish(err) }()

	stored, err := l.students.Search(student)
	if err != nil {
		return err
	}

	if err = l.students.Delete(student); err != nil {
		return err
	}

	l.recordRegistrySize(ctx, RegistryStudents, l.students.Size())
	l.publish(ctx, core.BuildStudentRemoved(*stored, l.now()))

	return nil
}

// Students returns copies of all registered students in registration order.
func (l *Library) Students(ctx context.Context) []core.Student {
	_, o := l.observeQuery(ctx, OperationListStudents)
	defer o.finish(nil)

	return l.students.List()
}

/***** Books *****/

// RegisterBook stores a copy of book.
func (l *Library) RegisterBook(ctx context.Context, book *core.Book) (err error) {
	ctx, o := l.observe(ctx, OperationRegisterBook)
	defer func() { o.finish(err) }()

	if err = l.books.Insert(book); err != nil {
		return err
	}

	l.recordRegistrySize(ctx, RegistryBooks, l.books.Size())
	l.publish(ctx, core.BuildBookAdded(*book, l.now()))

	return nil
}

// SearchBook returns a copy of the stored book with the same title and author, or nil.
func (l *Library) SearchBook(ctx context.Context, book *core.Book) (found *core.Book, err error) {
	_, o := l.observeQuery(ctx, OperationSearchBook)
	defer func() { o.finish(err) }()

	return l.books.Search(book)
}

// DeleteBook removes the stored book with the same title and author.
// Loans referencing the book are kept.
func (l *Library) DeleteBook(ctx context.Context, book *core.Book) (err error) {
	ctx, o := l.observe(ctx, OperationDeleteBook)
	defer func() { o.finish(err) }()

	stored, err := l.books.Search(book)
	if err != nil {
		return err
	}

	if err = l.books.Delete(book); err != nil {
		return err
	}

	l.recordRegistrySize(ctx, RegistryBooks, l.books.Size())
	l.publish(ctx, core.BuildBookRemoved(*stored, l.now()))

	return nil
}

// Books returns copies of all stored books in insertion order.
func (l *Library) Books(ctx context.Context) []core.Book {
	_, o := l.observeQuery(ctx, OperationListBooks)
	defer o.finish(nil)

	return l.books.List()
}

/***** Loans *****/

// CreateLoan stores loan as an active loan.
// The student and the book of the loan must be registered, otherwise ErrReferentialIntegrity is returned.
func (l *Library) CreateLoan(ctx context.Context, loan *core.Loan) (err error) {
	ctx, o := l.observe(ctx, OperationCreateLoan)
	defer func() { o.finish(err) }()

	if loan == nil {
		return fmt.Errorf("%w: cannot create nil loan", registry.ErrInvalidArgument)
	}

	student, err := l.students.Search(&loan.Student)
	if err != nil {
		return err
	}

	if student == nil {
		return fmt.Errorf("%w: student %s is not registered", ErrReferentialIntegrity, loan.Student.Email)
	}

	book, err := l.books.Search(&loan.Book)
	if err != nil {
		return err
	}

	if book == nil {
		return fmt.Errorf("%w: book %s is not registered", ErrReferentialIntegrity, loan.Book)
	}

	if err = l.loans.CreateLoan(loan); err != nil {
		return err
	}

	l.recordRegistrySize(ctx, RegistryLoans, l.loans.Size())
	l.publish(ctx, core.BuildLoanCreated(*loan, l.now()))

	return nil
}

// ReturnLoan marks the stored loan equal to loan as returned on returnDate.
func (l *Library) ReturnLoan(ctx context.Context, loan *core.Loan, returnDate time.Time) (err error) {
	ctx, o := l.observe(ctx, OperationReturnLoan)
	defer func() { o.finish(err) }()

	if err = l.loans.ReturnLoan(loan, returnDate); err != nil {
		return err
	}

	l.publish(ctx, core.BuildLoanReturned(*loan, returnDate, l.now()))

	return nil
}

// SearchLoan returns a copy of the stored loan with the same student, book and loan date, or nil.
func (l *Library) SearchLoan(ctx context.Context, loan *core.Loan) (found *core.Loan, err error) {
	_, o := l.observeQuery(ctx, OperationSearchLoan)
	defer func() { o.finish(err) }()

	return l.loans.Search(loan)
}

// DeleteLoan removes the stored loan with the same student, book and loan date.
func (l *Library) DeleteLoan(ctx context.Context, loan *core.Loan) (err error) {
	ctx, o := l.observe(ctx, OperationDeleteLoan)
	defer func() { o.finish(err) }()

	stored, err := l.loans.Search(loan)
	if err != nil {
		return err
	}

	if err = l.loans.Delete(loan); err != nil {
		return err
	}

	l.recordRegistrySize(ctx, RegistryLoans, l.loans.Size())
	l.publish(ctx, core.BuildLoanDeleted(*stored, l.now()))

	return nil
}

// Loans returns copies of all stored loans in creation order.
func (l *Library) Loans(ctx context.Context) []core.Loan {
	_, o := l.observeQuery(ctx, OperationListLoans)
	defer o.finish(nil)

	return l.loans.List()
}

// LoansByStudent returns copies of all loans of student.
func (l *Library) LoansByStudent(ctx context.Context, student *core.Student) (loans []core.Loan, err error) {
	_, o := l.observeQuery(ctx, OperationLoansByStudent)
	defer func() { o.finish(err) }()

	return l.loans.ListByStudent(student)
}

// LoansByBook returns copies of all loans of book.
func (l *Library) LoansByBook(ctx context.Context, book *core.Book) (loans []core.Loan, err error) {
	_, o := l.observeQuery(ctx, OperationLoansByBook)
	defer func() { o.finish(err) }()

	return l.loans.ListByBook(book)
}

// LoansByMonth returns copies of all loans made in the calendar month of date.
func (l *Library) LoansByMonth(ctx context.Context, date time.Time) (loans []core.Loan, err error) {
	_, o := l.observeQuery(ctx, OperationLoansByMonth)
	defer func() { o.finish(err) }()

	return l.loans.ListByMonth(date)
}

// publish writes event to the journal, if there is one. Failures are logged and counted only.
func (l *Library) publish(ctx context.Context, event core.DomainEvent) {
	if l.journal == nil {
		return
	}

	storableEvent, err := shell.StorableEventFrom(event, shell.NewEventMetadata(ctx))
	if err != nil {
		l.recordJournalError(ctx, event.IsEventType(), err)
		return
	}

	if err := l.journal.Append(ctx, storableEvent); err != nil {
		l.recordJournalError(ctx, event.IsEventType(), err)
	}
}
