package journal

import (
	"context"
	"sync"
)

const (
	logMsgMemoryAppended  = "journal: events appended"
	logMsgMemorySkipEvent = "journal: skipping event with undecodable payload"
	logAttrEventCount     = "event_count"
	logAttrEventType      = "event_type"
	logAttrError          = "error"
)

// MemoryJournal keeps events in process memory. It is lost on exit.
type MemoryJournal struct {
	mu     sync.RWMutex
	events StorableEvents
	logger Logger
}

// MemoryOption configures a MemoryJournal.
type MemoryOption func(*MemoryJournal)

// WithMemoryLogger sets a logger that receives debug information about appends and warnings about skipped events.
func WithMemoryLogger(logger Logger) MemoryOption {
	return func(j *MemoryJournal) {
		j.logger = logger
	}
}

// NewMemoryJournal creates an empty MemoryJournal.
func NewMemoryJournal(options ...MemoryOption) *MemoryJournal {
	j := &MemoryJournal{}

	for _, option := range options {
		option(j)
	}

	return j
}

// Append stores private copies of the given events.
func (j *MemoryJournal) Append(ctx context.Context, event StorableEvent, additionalEvents ...StorableEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.events = append(j.events, event.clone())
	for _, e := range additionalEvents {
		j.events = append(j.events, e.clone())
	}

	if j.logger != nil {
		j.logger.Debug(logMsgMemoryAppended, logAttrEventCount, 1+len(additionalEvents))
	}

	return nil
}

// Query returns copies of all events matching filter in append order.
// Events whose payload can't be decoded never match a filter with predicates.
func (j *MemoryJournal) Query(ctx context.Context, filter Filter) (StorableEvents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make(StorableEvents, 0)

	for _, event := range j.events {
		ok, err := filter.Matches(event)
		if err != nil {
			if j.logger != nil {
				j.logger.Warn(logMsgMemorySkipEvent, logAttrEventType, event.EventType, logAttrError, err.Error())
			}

			continue
		}

		if ok {
			result = append(result, event.clone())
		}
	}

	return result, nil
}

// Len returns the number of stored events.
func (j *MemoryJournal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.events)
}
