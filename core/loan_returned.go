package core

import (
	"time"
)

// LoanReturnedEventType is the event type identifier.
const LoanReturnedEventType = "LoanReturned"

// LoanReturned represents when a student brought a lent book back.
type LoanReturned struct {
	EventType    string
	StudentKey   string
	StudentEmail EmailString
	BookKey      string
	BookTitle    string
	BookAuthor   string
	LoanDate     string
	ReturnDate   string
	OccurredAt   OccurredAt
}

// BuildLoanReturned creates a new LoanReturned event.
func BuildLoanReturned(loan Loan, returnDate time.Time, occurredAt time.Time) LoanReturned {
	return LoanReturned{
		EventType:    LoanReturnedEventType,
		StudentKey:   loan.Student.Key(),
		StudentEmail: loan.Student.Email,
		BookKey:      loan.Book.Key(),
		BookTitle:    loan.Book.Title,
		BookAuthor:   loan.Book.Author,
		LoanDate:     FormatDate(loan.LoanDate),
		ReturnDate:   FormatDate(returnDate),
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanReturned) IsEventType() string {
	return LoanReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}
