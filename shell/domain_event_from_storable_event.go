package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-records/core"
	"github.com/AntonStoeckl/library-records/journal"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents journal.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent journal.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.StudentRegisteredEventType:
		return unmarshal[core.StudentRegistered](storableEvent.PayloadJSON)

	case core.StudentRemovedEventType:
		return unmarshal[core.StudentRemoved](storableEvent.PayloadJSON)

	case core.BookAddedEventType:
		return unmarshal[core.BookAdded](storableEvent.PayloadJSON)

	case core.BookRemovedEventType:
		return unmarshal[core.BookRemoved](storableEvent.PayloadJSON)

	case core.LoanCreatedEventType:
		return unmarshal[core.LoanCreated](storableEvent.PayloadJSON)

	case core.LoanReturnedEventType:
		return unmarshal[core.LoanReturned](storableEvent.PayloadJSON)

	case core.LoanDeletedEventType:
		return unmarshal[core.LoanDeleted](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshal[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(E)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}
