package core

import "errors"

var (
	// ErrInvalidStudent is returned when a student fails validation.
	ErrInvalidStudent = errors.New("invalid student")

	// ErrInvalidBook is returned when a book fails validation.
	ErrInvalidBook = errors.New("invalid book")

	// ErrInvalidLoan is returned when a loan fails validation.
	ErrInvalidLoan = errors.New("invalid loan")

	// ErrLoanAlreadyReturned is returned when returning a loan that carries a return date.
	ErrLoanAlreadyReturned = errors.New("loan is already returned")

	// ErrReturnBeforeLoan is returned when the return date lies before the loan date.
	ErrReturnBeforeLoan = errors.New("return date is before loan date")
)
