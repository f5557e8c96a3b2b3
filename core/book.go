package core

import (
	"fmt"
	"strings"
)

// Book is identified by the combination of its title and author.
type Book struct {
	Title  string
	Author string
	Pages  int
}

// BuildBook creates a validated Book.
func BuildBook(title string, author string, pages int) (Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)

	if title == "" {
		return Book{}, fmt.Errorf("%w: title must not be empty", ErrInvalidBook)
	}

	if author == "" {
		return Book{}, fmt.Errorf("%w: author must not be empty", ErrInvalidBook)
	}

	if pages < 0 {
		return Book{}, fmt.Errorf("%w: pages must not be negative, got %d", ErrInvalidBook, pages)
	}

	return Book{
		Title:  title,
		Author: author,
		Pages:  pages,
	}, nil
}

// Key returns the normalized title/author pair used for equality.
func (b Book) Key() string {
	return normalizeKey(b.Title) + "|" + normalizeKey(b.Author)
}

// Equal reports whether both books share title and author.
func (b Book) Equal(other Book) bool {
	return b.Key() == other.Key()
}

// Clone returns a deep copy.
func (b Book) Clone() Book {
	return b
}

func (b Book) String() string {
	return fmt.Sprintf("%q by %s", b.Title, b.Author)
}
