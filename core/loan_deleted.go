package core

import (
	"time"
)

// LoanDeletedEventType is the event type identifier.
const LoanDeletedEventType = "LoanDeleted"

// LoanDeleted represents when a loan record was deleted.
type LoanDeleted struct {
	EventType    string
	StudentKey   string
	StudentEmail EmailString
	BookKey      string
	BookTitle    string
	BookAuthor   string
	LoanDate     string
	OccurredAt   OccurredAt
}

// BuildLoanDeleted creates a new LoanDeleted event.
func BuildLoanDeleted(loan Loan, occurredAt time.Time) LoanDeleted {
	return LoanDeleted{
		EventType:    LoanDeletedEventType,
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
func (e LoanDeleted) IsEventType() string {
	return LoanDeletedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanDeleted) HasOccurredAt() time.Time {
	return e.OccurredAt
}
