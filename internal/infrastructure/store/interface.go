package store

import (
	"context"
	"errors"
)

var (
	ErrVersionConflict = errors.New("event version conflict")
	ErrPublish         = errors.New("failed to publish event")
)

// EventStoreInterface is the append-only booking journal
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(ctx context.Context, aggregateID string) ([]Event, error)
}

// Publisher forwards appended events to a message broker
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
}
