package journal

import "context"

// Journal is an append-only store of StorableEvent(s).
type Journal interface {
	// Append stores one or multiple events, keeping their order.
	Append(ctx context.Context, event StorableEvent, additionalEvents ...StorableEvent) error

	// Query returns all stored events matching the filter in append order.
	Query(ctx context.Context, filter Filter) (StorableEvents, error)
}
