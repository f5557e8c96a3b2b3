package library_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-records/core"
	"github.com/AntonStoeckl/library-records/journal"
	"github.com/AntonStoeckl/library-records/library"
	"github.com/AntonStoeckl/library-records/registry"
	"github.com/AntonStoeckl/library-records/testutil/testdoubles"
)

var fixedNow = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newLibrary(t *testing.T, capacity int, options ...library.Option) *library.Library {
	t.Helper()

	l, err := library.New(library.Config{Capacity: capacity}, append([]library.Option{library.WithClock(clock)}, options...)...)
	require.NoError(t, err)

	return l
}

type fixture struct {
	student core.Student
	book    core.Book
	loan    core.Loan
}

func registeredFixture(t *testing.T, l *library.Library) fixture {
	t.Helper()
	ctx := context.Background()

	student, err := core.BuildStudent("Ana", "a@x.com", "600 000 000")
	require.NoError(t, err)
	book, err := core.BuildBook("Title", "Author", 320)
	require.NoError(t, err)
	loan, err := core.BuildLoan(student, book, day(2024, time.January, 10))
	require.NoError(t, err)

	require.NoError(t, l.RegisterStudent(ctx, &student))
	require.NoError(t, l.RegisterBook(ctx, &book))

	return fixture{student: student, book: book, loan: loan}
}

type failingJournal struct {
	appendCalls int
}

func (j *failingJournal) Append(context.Context, journal.StorableEvent, ...journal.StorableEvent) error {
	j.appendCalls++
	return journal.ErrAppendingEventFailed
}

func (j *failingJournal) Query(context.Context, journal.Filter) (journal.StorableEvents, error) {
	return nil, journal.ErrQueryingEventsFailed
}

func Test_New_RejectsInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		_, err := library.New(library.Config{Capacity: capacity})
		assert.ErrorIs(t, err, registry.ErrInvalidArgument)
	}
}

func Test_New_RejectsNilClock(t *testing.T) {
	_, err := library.New(library.Config{Capacity: 1}, library.WithClock(nil))

	assert.ErrorIs(t, err, registry.ErrInvalidArgument)
}

func Test_Scenario_CreateDuplicateAndReturnLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	l := newLibrary(t, library.DefaultCapacity)
	f := registeredFixture(t, l)

	// act / assert
	require.NoError(t, l.CreateLoan(ctx, &f.loan))
	assert.ErrorIs(t, l.CreateLoan(ctx, &f.loan), registry.ErrDuplicateEntry)

	require.NoError(t, l.ReturnLoan(ctx, &f.loan, day(2024, time.January, 20)))

	found, err := l.SearchLoan(ctx, &f.loan)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.ReturnDate)
	assert.Equal(t, day(2024, time.January, 20), *found.ReturnDate)
	assert.Len(t, l.Loans(ctx), 1)
}

func Test_CreateLoan_UnknownStudent(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)

	stranger, err := core.BuildStudent("Bo", "b@x.com", "")
	require.NoError(t, err)
	loan, err := core.BuildLoan(stranger, f.book, day(2024, time.January, 10))
	require.NoError(t, err)

	err = l.CreateLoan(ctx, &loan)

	assert.ErrorIs(t, err, library.ErrReferentialIntegrity)
	assert.NotErrorIs(t, err, registry.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "b@x.com")
	assert.Equal(t, 0, l.Stats().Loans.Size)
}

func Test_CreateLoan_UnknownBook(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)

	other, err := core.BuildBook("Other", "Author", 10)
	require.NoError(t, err)
	loan, err := core.BuildLoan(f.student, other, day(2024, time.January, 10))
	require.NoError(t, err)

	assert.ErrorIs(t, l.CreateLoan(ctx, &loan), library.ErrReferentialIntegrity)
	assert.Empty(t, l.Loans(ctx))
}

func Test_CreateLoan_Nil(t *testing.T) {
	l := newLibrary(t, 5)

	assert.ErrorIs(t, l.CreateLoan(context.Background(), nil), registry.ErrInvalidArgument)
}

func Test_ReturnLoan_Failures(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)

	assert.ErrorIs(t, l.ReturnLoan(ctx, &f.loan, day(2024, time.January, 20)), registry.ErrNotFound)

	require.NoError(t, l.CreateLoan(ctx, &f.loan))
	require.NoError(t, l.ReturnLoan(ctx, &f.loan, day(2024, time.January, 20)))

	err := l.ReturnLoan(ctx, &f.loan, day(2024, time.January, 25))
	assert.ErrorIs(t, err, registry.ErrAlreadyReturned)
	assert.ErrorIs(t, err, registry.ErrNotFound, "a returned loan is no active loan")

	found, err := l.SearchLoan(ctx, &f.loan)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, day(2024, time.January, 20), *found.ReturnDate)
}

func Test_FilteredQueriesOnEmptyLibrary(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)

	byStudent, err := l.LoansByStudent(ctx, &f.student)
	require.NoError(t, err)
	assert.NotNil(t, byStudent)
	assert.Empty(t, byStudent)

	byBook, err := l.LoansByBook(ctx, &f.book)
	require.NoError(t, err)
	assert.NotNil(t, byBook)
	assert.Empty(t, byBook)
}

func Test_LoansByMonth(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)

	loan, err := core.BuildLoan(f.student, f.book, day(2024, time.March, 5))
	require.NoError(t, err)
	require.NoError(t, l.CreateLoan(ctx, &loan))

	for _, query := range []time.Time{day(2024, time.March, 1), day(2024, time.March, 31)} {
		loans, err := l.LoansByMonth(ctx, query)
		require.NoError(t, err)
		assert.Len(t, loans, 1)
	}

	for _, query := range []time.Time{day(2024, time.February, 5), day(2023, time.March, 5)} {
		loans, err := l.LoansByMonth(ctx, query)
		require.NoError(t, err)
		assert.Empty(t, loans)
	}
}

func Test_SearchAndDelete(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)

	query := core.StudentWithEmail("A@X.com ")
	found, err := l.SearchStudent(ctx, &query)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Ana", found.Name)

	book, err := l.SearchBook(ctx, &f.book)
	require.NoError(t, err)
	assert.Equal(t, f.book, *book)

	require.NoError(t, l.DeleteStudent(ctx, &query))
	assert.ErrorIs(t, l.DeleteStudent(ctx, &query), registry.ErrNotFound)
	require.NoError(t, l.DeleteBook(ctx, &f.book))

	missing, err := l.SearchStudent(ctx, &query)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Empty(t, l.Students(ctx))
	assert.Empty(t, l.Books(ctx))
}

func Test_DeleteLoan(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)
	require.NoError(t, l.CreateLoan(ctx, &f.loan))

	require.NoError(t, l.DeleteLoan(ctx, &f.loan))

	assert.ErrorIs(t, l.DeleteLoan(ctx, &f.loan), registry.ErrNotFound)
	assert.Empty(t, l.Loans(ctx))
}

func Test_Capacity(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 2)

	for _, email := range []string{"a@x.com", "b@x.com"} {
		s, err := core.BuildStudent("S", email, "")
		require.NoError(t, err)
		require.NoError(t, l.RegisterStudent(ctx, &s))
	}

	s, err := core.BuildStudent("S", "c@x.com", "")
	require.NoError(t, err)

	assert.ErrorIs(t, l.RegisterStudent(ctx, &s), registry.ErrCapacityExceeded)
	assert.Equal(t, library.RegistryStats{Size: 2, Capacity: 2}, l.Stats().Students)
}

func Test_Stats(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)
	require.NoError(t, l.CreateLoan(ctx, &f.loan))
	second, err := core.BuildLoan(f.student, f.book, day(2024, time.January, 11))
	require.NoError(t, err)
	require.NoError(t, l.CreateLoan(ctx, &second))
	require.NoError(t, l.ReturnLoan(ctx, &f.loan, day(2024, time.January, 12)))

	stats := l.Stats()

	assert.Equal(t, library.RegistryStats{Size: 1, Capacity: 5}, stats.Students)
	assert.Equal(t, library.RegistryStats{Size: 1, Capacity: 5}, stats.Books)
	assert.Equal(t, library.RegistryStats{Size: 2, Capacity: 5}, stats.Loans)
	assert.Equal(t, 1, stats.ActiveLoans)
}

func Test_History(t *testing.T) {
	// arrange
	ctx := context.Background()
	j := journal.NewMemoryJournal()
	l := newLibrary(t, 5, library.WithJournal(j))
	f := registeredFixture(t, l)
	require.NoError(t, l.CreateLoan(ctx, &f.loan))
	require.NoError(t, l.ReturnLoan(ctx, &f.loan, day(2024, time.January, 20)))

	other, err := core.BuildStudent("Bo", "b@x.com", "")
	require.NoError(t, err)
	require.NoError(t, l.RegisterStudent(ctx, &other))

	// act
	studentEvents, err := l.StudentHistory(ctx, &f.student)
	require.NoError(t, err)
	bookEvents, err := l.BookHistory(ctx, &f.book)
	require.NoError(t, err)

	// assert
	require.Len(t, studentEvents, 3)
	assert.Equal(t, core.StudentRegisteredEventType, studentEvents[0].IsEventType())
	assert.Equal(t, core.LoanCreatedEventType, studentEvents[1].IsEventType())
	assert.Equal(t, core.LoanReturnedEventType, studentEvents[2].IsEventType())
	assert.Equal(t, fixedNow, studentEvents[0].HasOccurredAt())

	returned, ok := studentEvents[2].(core.LoanReturned)
	require.True(t, ok)
	assert.Equal(t, "2024-01-20", returned.ReturnDate)

	require.Len(t, bookEvents, 3)
	assert.Equal(t, core.BookAddedEventType, bookEvents[0].IsEventType())
	assert.Equal(t, 5, j.Len())
}

func Test_History_RecordsRemovals(t *testing.T) {
	ctx := context.Background()
	l := newLibrary(t, 5, library.WithJournal(journal.NewMemoryJournal()))
	f := registeredFixture(t, l)
	require.NoError(t, l.CreateLoan(ctx, &f.loan))
	require.NoError(t, l.DeleteLoan(ctx, &f.loan))
	require.NoError(t, l.DeleteBook(ctx, &f.book))

	events, err := l.BookHistory(ctx, &f.book)

	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, core.LoanDeletedEventType, events[2].IsEventType())
	assert.Equal(t, core.BookRemovedEventType, events[3].IsEventType())
}

func Test_History_WithoutJournal(t *testing.T) {
	l := newLibrary(t, 5)
	f := registeredFixture(t, l)

	_, err := l.StudentHistory(context.Background(), &f.student)

	assert.ErrorIs(t, err, library.ErrJournalDisabled)
}

func Test_History_Nil(t *testing.T) {
	l := newLibrary(t, 5, library.WithJournal(journal.NewMemoryJournal()))

	_, err := l.BookHistory(context.Background(), nil)

	assert.ErrorIs(t, err, registry.ErrInvalidArgument)
}

func Test_JournalFailureDoesNotFailOperation(t *testing.T) {
	// arrange
	ctx := context.Background()
	j := &failingJournal{}
	logSpy := testdoubles.NewLogHandlerSpy(false)
	metricsSpy := testdoubles.NewMetricsCollectorSpy(true)
	l := newLibrary(t, 5,
		library.WithJournal(j),
		library.WithLogger(slog.New(logSpy)),
		library.WithMetrics(metricsSpy),
	)
	f := registeredFixture(t, l)
	logSpy.Reset()

	// act
	err := l.CreateLoan(ctx, &f.loan)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, j.appendCalls)
	assert.Equal(t, 1, l.Stats().Loans.Size)
	assert.True(t, logSpy.HasLogWithMessage(slog.LevelWarn, library.LogMsgJournalFailed).
		WithAttrValue(library.LogAttrEventType, core.LoanCreatedEventType).
		WithAttr(library.LogAttrError).
		Assert())
	assert.Equal(t, 3, metricsSpy.HasCounterRecordForMetric(library.JournalErrorsMetric).Count())
	assert.True(t, metricsSpy.HasCounterRecordForMetric(library.OperationCallsMetric).
		WithOperation(library.OperationCreateLoan).
		WithStatus(library.StatusSuccess).
		Assert())

	_, err = l.StudentHistory(ctx, &f.student)
	assert.True(t, errors.Is(err, journal.ErrQueryingEventsFailed))
}

func Test_Observability_Logging(t *testing.T) {
	ctx := context.Background()
	logSpy := testdoubles.NewLogHandlerSpy(false)
	l := newLibrary(t, 5, library.WithLogger(slog.New(logSpy)))
	f := registeredFixture(t, l)

	require.NoError(t, l.CreateLoan(ctx, &f.loan))
	assert.True(t, logSpy.HasLogWithMessage(slog.LevelInfo, library.LogMsgOperationCompleted).
		WithAttrValue(library.LogAttrOperation, library.OperationRegisterStudent).
		WithAttrValue(library.LogAttrStatus, library.StatusSuccess).
		WithDurationMS().
		Assert())

	logSpy.Reset()
	_ = l.Loans(ctx)
	assert.True(t, logSpy.HasDebugLog(library.LogMsgOperationCompleted))
	assert.False(t, logSpy.HasInfoLog(library.LogMsgOperationCompleted))

	logSpy.Reset()
	assert.Error(t, l.CreateLoan(ctx, &f.loan))
	assert.True(t, logSpy.HasLogWithMessage(slog.LevelInfo, library.LogMsgOperationRejected).
		WithAttrValue(library.LogAttrStatus, library.StatusRejected).
		WithAttr(library.LogAttrError).
		Assert())

	logSpy.Reset()
	assert.Error(t, l.RegisterBook(ctx, nil))
	assert.True(t, logSpy.HasLogWithMessage(slog.LevelError, library.LogMsgOperationFailed).
		WithAttrValue(library.LogAttrOperation, library.OperationRegisterBook).
		WithAttrValue(library.LogAttrStatus, library.StatusError).
		Assert())
}

func Test_Observability_ContextualLoggerTakesPrecedence(t *testing.T) {
	logSpy := testdoubles.NewLogHandlerSpy(false)
	contextualSpy := testdoubles.NewContextualLoggerSpy(true)
	l := newLibrary(t, 5,
		library.WithLogger(slog.New(logSpy)),
		library.WithContextualLogger(contextualSpy),
	)

	registeredFixture(t, l)

	assert.True(t, contextualSpy.HasLog("info", library.LogMsgOperationCompleted))
	assert.Equal(t, 2, contextualSpy.CountLogs("info"))
	assert.Equal(t, 0, logSpy.GetRecordCount())
}

func Test_Observability_Metrics(t *testing.T) {
	ctx := context.Background()
	metricsSpy := testdoubles.NewMetricsCollectorSpy(true)
	l := newLibrary(t, 5, library.WithMetrics(metricsSpy))
	f := registeredFixture(t, l)

	require.NoError(t, l.CreateLoan(ctx, &f.loan))
	assert.Error(t, l.CreateLoan(ctx, &f.loan))
	assert.Error(t, l.CreateLoan(ctx, nil))

	assert.True(t, metricsSpy.HasDurationRecordForMetric(library.OperationDurationMetric).
		WithOperation(library.OperationCreateLoan).
		WithStatus(library.StatusSuccess).
		Assert())
	assert.True(t, metricsSpy.HasCounterRecordForMetric(library.OperationCallsMetric).
		WithOperation(library.OperationCreateLoan).
		WithStatus(library.StatusRejected).
		Assert())
	assert.True(t, metricsSpy.HasCounterRecordForMetric(library.OperationCallsMetric).
		WithOperation(library.OperationCreateLoan).
		WithStatus(library.StatusError).
		Assert())
	assert.Equal(t, 3, metricsSpy.HasValueRecordForMetric(library.RegistrySizeMetric).Count())
	assert.True(t, metricsSpy.HasValueRecordForMetric(library.RegistrySizeMetric).
		WithLabel(library.LogAttrRegistry, library.RegistryLoans).
		Assert())
	assert.Positive(t, metricsSpy.ContextCalls())
}

func Test_Observability_Tracing(t *testing.T) {
	ctx := context.Background()
	tracingSpy := testdoubles.NewTracingCollectorSpy(true)
	l := newLibrary(t, 5, library.WithTracing(tracingSpy))
	f := registeredFixture(t, l)

	require.NoError(t, l.CreateLoan(ctx, &f.loan))
	assert.ErrorIs(t, l.DeleteStudent(ctx, &core.Student{Email: "nobody@x.com"}), registry.ErrNotFound)

	span, ok := tracingSpy.FindSpan(library.SpanNamePrefix + library.OperationCreateLoan)
	require.True(t, ok)
	assert.True(t, span.Finished)
	assert.Equal(t, library.StatusSuccess, span.Status)
	assert.Equal(t, library.OperationCreateLoan, span.StartAttributes[library.LogAttrOperation])
	assert.Contains(t, span.EndAttributes, library.LogAttrDurationMS)

	span, ok = tracingSpy.FindSpan(library.SpanNamePrefix + library.OperationDeleteStudent)
	require.True(t, ok)
	assert.Equal(t, library.StatusRejected, span.Status)
	assert.Contains(t, span.EndAttributes[library.LogAttrError], "not found")
	assert.Len(t, tracingSpy.GetSpanRecords(), 4)
}
