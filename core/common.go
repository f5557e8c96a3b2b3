package core

import (
	"strings"
	"time"
)

// DateLayout is the calendar day format used in event payloads and seed files.
const DateLayout = "2006-01-02"

// EmailString represents the natural key of a student.
type EmailString = string

// OccurredAt represents when an event occurred.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// ToDate strips the clock part of t and returns the calendar day at midnight UTC.
// The day is taken in t's own location, so 2024-03-05T23:30+02:00 stays the 5th.
func ToDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a calendar day in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatDate renders a calendar day in DateLayout.
func FormatDate(t time.Time) string {
	return ToDate(t).Format(DateLayout)
}

// SameMonth reports whether a and b fall into the same calendar month of the same year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
