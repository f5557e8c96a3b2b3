package core

import (
	"time"
)

// LoanCreatedEventType is the event type identifier.
const LoanCreatedEventType = "LoanCreated"

// LoanCreated represents when a book was lent to a student.
type LoanCreated struct {
	EventType    string
	StudentKey   string
	StudentEmail EmailString
	BookKey      string
	BookTitle    string
	BookAuthor   string
	LoanDate     string
	OccurredAt   OccurredAt
}

// BuildLoanCreated creates a new LoanCreated event.
func BuildLoanCreated(loan Loan, occurredAt time.Time) LoanCreated {
	return LoanCreated{
		EventType:    LoanCreatedEventType,
		StudentKey:   loan.Student.Key(),
		StudentEmail: loan.Student.Email,
		BookKey:      loan.Book.Key(),
		BookTitle:    loan.Book.Title,
		BookAuthor:   loan.Book.Author,
		LoanDate:     FormatDate(loan.LoanDate),
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanCreated) IsEventType() string {
	return LoanCreatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanCreated) HasOccurredAt() time.Time {
	return e.OccurredAt
}
