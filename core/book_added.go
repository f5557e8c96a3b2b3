package core

import (
	"time"
)

// BookAddedEventType is the event type identifier.
const BookAddedEventType = "BookAdded"

// BookAdded represents when a book was added to the catalogue.
type BookAdded struct {
	EventType  string
	BookKey    string
	BookTitle  string
	BookAuthor string
	OccurredAt OccurredAt
}

// BuildBookAdded creates a new BookAdded event.
func BuildBookAdded(book Book, occurredAt time.Time) BookAdded {
	return BookAdded{
		EventType:  BookAddedEventType,
		BookKey:    book.Key(),
		BookTitle:  book.Title,
		BookAuthor: book.Author,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookAdded) IsEventType() string {
	return BookAddedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAdded) HasOccurredAt() time.Time {
	return e.OccurredAt
}
