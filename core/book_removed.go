package core

import (
	"time"
)

// BookRemovedEventType is the event type identifier.
const BookRemovedEventType = "BookRemoved"

// BookRemoved represents when a book was removed from the catalogue.
type BookRemoved struct {
	EventType  string
	BookKey    string
	BookTitle  string
	BookAuthor string
	OccurredAt OccurredAt
}

// BuildBookRemoved creates a new BookRemoved event.
func BuildBookRemoved(book Book, occurredAt time.Time) BookRemoved {
	return BookRemoved{
		EventType:  BookRemovedEventType,
		BookKey:    book.Key(),
		BookTitle:  book.Title,
		BookAuthor: book.Author,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookRemoved) IsEventType() string {
	return BookRemovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookRemoved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
