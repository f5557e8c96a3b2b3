package core

import (
	"fmt"
	"time"
)

// Loan records that a Student borrowed a Book on a given day.
//
// A loan is active while ReturnDate is nil and returned once it is set.
// Its identity is the triple (student, book, loan date).
type Loan struct {
	Student    Student
	Book       Book
	LoanDate   time.Time
	ReturnDate *time.Time
}

// BuildLoan creates an active Loan dated on the calendar day of loanDate.
func BuildLoan(student Student, book Book, loanDate time.Time) (Loan, error) {
	if loanDate.IsZero() {
		return Loan{}, fmt.Errorf("%w: loan date must be set", ErrInvalidLoan)
	}

	return Loan{
		Student:  student,
		Book:     book,
		LoanDate: ToDate(loanDate),
	}, nil
}

// Equal reports whether both loans share student, book and loan day.
// The return date is not part of the identity.
func (l Loan) Equal(other Loan) bool {
	return l.Student.Equal(other.Student) &&
		l.Book.Equal(other.Book) &&
		ToDate(l.LoanDate).Equal(ToDate(other.LoanDate))
}

// Clone returns a deep copy, including a private copy of the return date.
func (l Loan) Clone() Loan {
	clone := l
	if l.ReturnDate != nil {
		returned := *l.ReturnDate
		clone.ReturnDate = &returned
	}

	return clone
}

// IsReturned reports whether the loan carries a return date.
func (l Loan) IsReturned() bool {
	return l.ReturnDate != nil
}

// Return moves the loan from active to returned.
// There is no transition back; returning twice fails with ErrLoanAlreadyReturned.
func (l *Loan) Return(returnDate time.Time) error {
	if l.IsReturned() {
		return fmt.Errorf("%w: returned on %s", ErrLoanAlreadyReturned, FormatDate(*l.ReturnDate))
	}

	day := ToDate(returnDate)
	if day.Before(ToDate(l.LoanDate)) {
		return fmt.Errorf("%w: %s < %s", ErrReturnBeforeLoan, FormatDate(day), FormatDate(l.LoanDate))
	}

	l.ReturnDate = &day

	return nil
}

func (l Loan) String() string {
	state := "active"
	if l.IsReturned() {
		state = "returned " + FormatDate(*l.ReturnDate)
	}

	return fmt.Sprintf("%s -> %s on %s (%s)", l.Book, l.Student, FormatDate(l.LoanDate), state)
}
