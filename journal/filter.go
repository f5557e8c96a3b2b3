package journal

import (
	"slices"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** FilterPredicate *****/

// FilterPredicate matches events whose top-level payload field Key holds the string Val.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** Filter *****/

// Filter describes which events a Query returns:
//
//   - (eventType OR eventType...) when event types are set
//   - AND (predicate OR predicate...), or (predicate AND predicate...) with AllPredicatesOf
//   - AND occurredAt within [occurredFrom, occurredUntil] for the bounds that are set
//
// The zero Filter matches every event.
type Filter struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
	occurredFrom           time.Time
	occurredUntil          time.Time
}

func (f Filter) EventTypes() []FilterEventTypeString {
	return f.eventTypes
}

func (f Filter) Predicates() []FilterPredicate {
	return f.predicates
}

func (f Filter) AllPredicatesMustMatch() bool {
	return f.allPredicatesMustMatch
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

// Matches evaluates the filter against a single event in memory.
// It returns ErrInvalidPayloadJSON if predicates must be checked and the payload can't be decoded.
func (f Filter) Matches(event StorableEvent) (bool, error) {
	if len(f.eventTypes) > 0 && !slices.Contains(f.eventTypes, event.EventType) {
		return false, nil
	}

	if !f.occurredFrom.IsZero() && event.OccurredAt.Before(f.occurredFrom) {
		return false, nil
	}

	if !f.occurredUntil.IsZero() && event.OccurredAt.After(f.occurredUntil) {
		return false, nil
	}

	if len(f.predicates) == 0 {
		return true, nil
	}

	var payload map[string]any
	if err := jsoniter.Unmarshal(event.PayloadJSON, &payload); err != nil {
		return false, ErrInvalidPayloadJSON
	}

	matches := func(p FilterPredicate) bool {
		val, ok := payload[p.key].(string)
		return ok && val == p.val
	}

	if f.allPredicatesMustMatch {
		for _, p := range f.predicates {
			if !matches(p) {
				return false, nil
			}
		}

		return true, nil
	}

	return slices.ContainsFunc(f.predicates, matches), nil
}

/***** FilterBuilder *****/

// FilterBuilder builds a Filter step by step. It is a value type, so partial builders can be reused.
type FilterBuilder struct {
	filter Filter
}

// BuildFilter creates an empty FilterBuilder.
func BuildFilter() FilterBuilder {
	return FilterBuilder{}
}

// AnyEventTypeOf adds one or multiple event types expecting ANY of them to match.
//
// It sanitizes the input:
//   - removing empty event types ("")
//   - sorting the event types
//   - removing duplicate event types
func (fb FilterBuilder) AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterBuilder {
	all := append(slices.Clone(fb.filter.eventTypes), eventType)
	all = append(all, eventTypes...)
	all = slices.DeleteFunc(all, func(e FilterEventTypeString) bool { return e == "" })
	slices.Sort(all)
	fb.filter.eventTypes = slices.Clip(slices.Compact(all))

	return fb
}

// AnyPredicateOf adds one or multiple predicates expecting ANY of them to match.
func (fb FilterBuilder) AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterBuilder {
	fb.filter.predicates = sanitizePredicates(fb.filter.predicates, predicate, predicates...)

	return fb
}

// AllPredicatesOf adds one or multiple predicates expecting ALL of them to match.
func (fb FilterBuilder) AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterBuilder {
	fb.filter.allPredicatesMustMatch = true
	fb.filter.predicates = sanitizePredicates(fb.filter.predicates, predicate, predicates...)

	return fb
}

// OccurredFrom restricts the filter to events that occurred at or after t.
func (fb FilterBuilder) OccurredFrom(t time.Time) FilterBuilder {
	fb.filter.occurredFrom = t

	return fb
}

// OccurredUntil restricts the filter to events that occurred at or before t.
func (fb FilterBuilder) OccurredUntil(t time.Time) FilterBuilder {
	fb.filter.occurredUntil = t

	return fb
}

// Finalize returns the Filter.
func (fb FilterBuilder) Finalize() Filter {
	return fb.filter
}

// sanitizePredicates removes empty/partial predicates (key or val is ""), sorts and deduplicates them.
func sanitizePredicates(existing []FilterPredicate, predicate FilterPredicate, predicates ...FilterPredicate) []FilterPredicate {
	all := append(slices.Clone(existing), predicate)
	all = append(all, predicates...)
	all = slices.DeleteFunc(all, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(all, func(a, b FilterPredicate) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}

		return strings.Compare(a.val, b.val)
	})

	return slices.Clip(slices.Compact(all))
}
