package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/library-records/core"
	"github.com/AntonStoeckl/library-records/library"
)

// Seed is the content of a seed file.
type Seed struct {
	Students []SeedStudent `yaml:"students"`
	Books    []SeedBook    `yaml:"books"`
	Loans    []SeedLoan    `yaml:"loans"`
}

// SeedStudent defines a student to register.
type SeedStudent struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

// SeedBook defines a book to add.
type SeedBook struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Pages  int    `yaml:"pages"`
}

// SeedLoan defines a loan by the keys of its student and book.
type SeedLoan struct {
	Email    string `yaml:"email"`
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`     // YYYY-MM-DD
	Returned string `yaml:"returned"` // YYYY-MM-DD, empty while active
}

// LoadSeed reads and parses the seed file at path.
func LoadSeed(path string) (*Seed, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	return ParseSeed(content)
}

// ParseSeed parses seed YAML. Unknown fields are rejected, an empty document is an empty seed.
func ParseSeed(content []byte) (*Seed, error) {
	seed := new(Seed)

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	if err := decoder.Decode(seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	return seed, nil
}

// Apply registers all students and books, then creates and returns the loans, in file order.
// It stops at the first failure.
func (s *Seed) Apply(ctx context.Context, lib *library.Library) error {
	for i, entry := range s.Students {
		student, err := core.BuildStudent(entry.Name, entry.Email, entry.Phone)
		if err != nil {
			return fmt.Errorf("student #%d: %w", i+1, err)
		}

		if err := lib.RegisterStudent(ctx, &student); err != nil {
			return fmt.Errorf("student #%d: %w", i+1, err)
		}
	}

	for i, entry := range s.Books {
		book, err := core.BuildBook(entry.Title, entry.Author, entry.Pages)
		if err != nil {
			return fmt.Errorf("book #%d: %w", i+1, err)
		}

		if err := lib.RegisterBook(ctx, &book); err != nil {
			return fmt.Errorf("book #%d: %w", i+1, err)
		}
	}

	for i, entry := range s.Loans {
		if err := applyLoan(ctx, lib, entry); err != nil {
			return fmt.Errorf("loan #%d: %w", i+1, err)
		}
	}

	return nil
}

func applyLoan(ctx context.Context, lib *library.Library, entry SeedLoan) error {
	date, err := core.ParseDate(entry.Date)
	if err != nil {
		return fmt.Errorf("%w: date %q: %v", core.ErrInvalidLoan, entry.Date, err)
	}

	// Loans embed the registered values. Unknown keys are passed through so CreateLoan reports them.
	student := core.StudentWithEmail(entry.Email)
	if found, err := lib.SearchStudent(ctx, &student); err == nil && found != nil {
		student = *found
	}

	book := core.Book{Title: entry.Title, Author: entry.Author}
	if found, err := lib.SearchBook(ctx, &book); err == nil && found != nil {
		book = *found
	}

	loan, err := core.BuildLoan(student, book, date)
	if err != nil {
		return err
	}

	if err := lib.CreateLoan(ctx, &loan); err != nil {
		return err
	}

	if entry.Returned == "" {
		return nil
	}

	returned, err := core.ParseDate(entry.Returned)
	if err != nil {
		return fmt.Errorf("%w: returned %q: %v", core.ErrInvalidLoan, entry.Returned, err)
	}

	return lib.ReturnLoan(ctx, &loan, returned)
}
