package registry

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/library-records/core"
)

// LoanRegistry stores loans, unique by (student, book, loan date), and tracks their return.
type LoanRegistry struct {
	loans *Registry[core.Loan]
}

// NewLoanRegistry creates an empty LoanRegistry.
func NewLoanRegistry(capacity int) (*LoanRegistry, error) {
	loans, err := New[core.Loan]("loan", capacity)
	if err != nil {
		return nil, err
	}

	return &LoanRegistry{loans: loans}, nil
}

// CreateLoan stores a copy of loan as an active loan.
// A return date carried by the argument is not stored.
func (r *LoanRegistry) CreateLoan(loan *core.Loan) error {
	if loan == nil {
		return r.loans.errorf(ErrInvalidArgument, "cannot create nil loan")
	}

	active := loan.Clone()
	active.ReturnDate = nil

	return r.loans.Insert(&active)
}

// ReturnLoan sets the return date of the stored loan equal to loan.
// A loan that was returned before is no active loan: the error matches both ErrAlreadyReturned and ErrNotFound.
func (r *LoanRegistry) ReturnLoan(loan *core.Loan, returnDate time.Time) error {
	if loan == nil {
		return r.loans.errorf(ErrInvalidArgument, "cannot return nil loan")
	}

	if returnDate.IsZero() {
		return r.loans.errorf(ErrInvalidArgument, "return date must be set")
	}

	i := r.loans.indexOf(*loan)
	if i < 0 {
		return r.loans.errorf(ErrNotFound, "%v", *loan)
	}

	err := r.loans.entries[i].Return(returnDate)
	switch {
	case errors.Is(err, core.ErrLoanAlreadyReturned):
		return errors.Join(ErrAlreadyReturned, ErrNotFound, err)
	case errors.Is(err, core.ErrReturnBeforeLoan):
		return errors.Join(ErrInvalidArgument, err)
	case err != nil:
		return err
	}

	return nil
}

// Search returns a copy of the stored loan equal to loan, or nil if there is none.
func (r *LoanRegistry) Search(loan *core.Loan) (*core.Loan, error) {
	return r.loans.Search(loan)
}

// Delete removes the stored loan equal to loan.
func (r *LoanRegistry) Delete(loan *core.Loan) error {
	return r.loans.Delete(loan)
}

// List returns copies of all loans in insertion order.
func (r *LoanRegistry) List() []core.Loan {
	return r.loans.List()
}

// ListByStudent returns copies of all loans of the given student.
func (r *LoanRegistry) ListByStudent(student *core.Student) ([]core.Loan, error) {
	if student == nil {
		return nil, r.loans.errorf(ErrInvalidArgument, "cannot filter by nil student")
	}

	return r.loans.filter(func(l core.Loan) bool { return l.Student.Equal(*student) }), nil
}

// ListByBook returns copies of all loans of the given book.
func (r *LoanRegistry) ListByBook(book *core.Book) ([]core.Loan, error) {
	if book == nil {
		return nil, r.loans.errorf(ErrInvalidArgument, "cannot filter by nil book")
	}

	return r.loans.filter(func(l core.Loan) bool { return l.Book.Equal(*book) }), nil
}

// ListByMonth returns copies of all loans made in the calendar month of date.
func (r *LoanRegistry) ListByMonth(date time.Time) ([]core.Loan, error) {
	if date.IsZero() {
		return nil, r.loans.errorf(ErrInvalidArgument, "month date must be set")
	}

	return r.loans.filter(func(l core.Loan) bool { return core.SameMonth(l.LoanDate, date) }), nil
}

// Capacity returns the maximum number of loans.
func (r *LoanRegistry) Capacity() int {
	return r.loans.Capacity()
}

// Size returns the number of stored loans.
func (r *LoanRegistry) Size() int {
	return r.loans.Size()
}
