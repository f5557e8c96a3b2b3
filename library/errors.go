package library

import "errors"

var (
	// ErrReferentialIntegrity is returned when a loan references a student or book that isn't registered.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrJournalDisabled is returned by history queries of a Library built without a journal.
	ErrJournalDisabled = errors.New("journal is disabled")
)
