package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-records/core"
	"github.com/AntonStoeckl/library-records/shell"
)

const monthLayout = "2006-01"

var errMissingFlag = errors.New("missing flag")

// withSeededApp builds the app, loads the seed file into its library and calls fn.
// All events written during one invocation share a correlation ID.
func withSeededApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) (err error) {
	if opts.seedFile == "" {
		return fmt.Errorf("%w: --seed", errMissingFlag)
	}

	seed, err := LoadSeed(opts.seedFile)
	if err != nil {
		return err
	}

	ctx := shell.WithCorrelationID(cmd.Context(), uuid.New())

	a, err := newApp(ctx, opts.cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, a.close(context.WithoutCancel(ctx)))
	}()

	if err := seed.Apply(ctx, a.lib); err != nil {
		return err
	}

	return fn(ctx, a)
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load the seed file and list all students, books and loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSeededApp(cmd, opts, func(ctx context.Context, a *app) error {
				p := newPrinter(cmd.OutOrStdout())
				p.students(a.lib.Students(ctx))
				p.books(a.lib.Books(ctx))
				p.loans("Loans", a.lib.Loans(ctx))
				p.stats(a.lib.Stats())

				return p.flush()
			})
		},
	}
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Load the seed file and list the loans made in one month",
		Example: `  librarian report --seed seed.yaml --month 2024-03`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := time.Parse(monthLayout, month)
			if err != nil {
				return fmt.Errorf("--month %q: expected YYYY-MM: %w", month, err)
			}

			return withSeededApp(cmd, opts, func(ctx context.Context, a *app) error {
				loans, err := a.lib.LoansByMonth(ctx, date)
				if err != nil {
					return err
				}

				p := newPrinter(cmd.OutOrStdout())
				p.loans("Loans in "+date.Format("January 2006"), loans)

				return p.flush()
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to report (YYYY-MM)")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var email, title, author string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Load the seed file and show the journaled history of a student or a book",
		Example: `  librarian history --seed seed.yaml --email a@x.com
  librarian history --seed seed.yaml --title "Title" --author "Author"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" && (title == "" || author == "") {
				return fmt.Errorf("%w: --email or --title with --author", errMissingFlag)
			}

			return withSeededApp(cmd, opts, func(ctx context.Context, a *app) error {
				var events core.DomainEvents
				var err error

				if email != "" {
					student := core.StudentWithEmail(email)
					events, err = a.lib.StudentHistory(ctx, &student)
				} else {
					book := core.Book{Title: title, Author: author}
					events, err = a.lib.BookHistory(ctx, &book)
				}

				if err != nil {
					return err
				}

				p := newPrinter(cmd.OutOrStdout())
				p.events(events)

				return p.flush()
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the student")
	cmd.Flags().StringVar(&title, "title", "", "title of the book")
	cmd.Flags().StringVar(&author, "author", "", "author of the book")
	cmd.MarkFlagsRequiredTogether("title", "author")
	cmd.MarkFlagsMutuallyExclusive("email", "title")

	return cmd
}
