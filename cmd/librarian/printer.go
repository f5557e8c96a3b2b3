package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/AntonStoeckl/library-records/core"
	"github.com/AntonStoeckl/library-records/library"
)

// printer renders listings as aligned columns.
type printer struct {
	w *tabwriter.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
}

func (p *printer) flush() error {
	return p.w.Flush()
}

func (p *printer) section(title string, count int) {
	_, _ = fmt.Fprintf(p.w, "%s (%d)\n", title, count)
}

func (p *printer) row(cells ...string) {
	for i, cell := range cells {
		if i > 0 {
			_, _ = io.WriteString(p.w, "\t")
		}
		_, _ = io.WriteString(p.w, cell)
	}
	_, _ = io.WriteString(p.w, "\n")
}

func (p *printer) students(students []core.Student) {
	p.section("Students", len(students))
	for _, s := range students {
		p.row("", s.Name, s.Email, s.Phone)
	}
	p.row()
}

func (p *printer) books(books []core.Book) {
	p.section("Books", len(books))
	for _, b := range books {
		p.row("", b.Title, b.Author, strconv.Itoa(b.Pages)+" pages")
	}
	p.row()
}

func (p *printer) loans(title string, loans []core.Loan) {
	p.section(title, len(loans))
	for _, l := range loans {
		returned := "active"
		if l.IsReturned() {
			returned = "returned " + core.FormatDate(*l.ReturnDate)
		}
		p.row("", core.FormatDate(l.LoanDate), l.Student.Email, l.Book.Title, l.Book.Author, returned)
	}
	p.row()
}

func (p *printer) stats(stats library.Stats) {
	p.row("Capacity", "students", fmt.Sprintf("%d/%d", stats.Students.Size, stats.Students.Capacity))
	p.row("", "books", fmt.Sprintf("%d/%d", stats.Books.Size, stats.Books.Capacity))
	p.row("", "loans", fmt.Sprintf("%d/%d", stats.Loans.Size, stats.Loans.Capacity))
	p.row("", "active loans", strconv.Itoa(stats.ActiveLoans))
}

func (p *printer) events(events core.DomainEvents) {
	p.section("History", len(events))
	for _, e := range events {
		p.row("", e.HasOccurredAt().Format("2006-01-02 15:04:05"), e.IsEventType(), describe(e))
	}
}

func describe(event core.DomainEvent) string {
	switch e := event.(type) {
	case core.StudentRegistered:
		return e.StudentEmail
	case core.StudentRemoved:
		return e.StudentEmail
	case core.BookAdded:
		return e.BookTitle + " by " + e.BookAuthor
	case core.BookRemoved:
		return e.BookTitle + " by " + e.BookAuthor
	case core.LoanCreated:
		return fmt.Sprintf("%s borrowed %s on %s", e.StudentEmail, e.BookTitle, e.LoanDate)
	case core.LoanReturned:
		return fmt.Sprintf("%s returned %s on %s", e.StudentEmail, e.BookTitle, e.ReturnDate)
	case core.LoanDeleted:
		return fmt.Sprintf("loan of %s to %s on %s deleted", e.BookTitle, e.StudentEmail, e.LoanDate)
	default:
		return ""
	}
}
