// Package pubsub provides a generic publish/subscribe event system used to fan
// out display operations and log entries to the terminal emulator.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	DrawnEvent    EventType = "drawn"    // a glyph or label was drawn
	ClearedEvent  EventType = "cleared"  // the text zone was cleared
	UpdatedEvent  EventType = "updated"  // draw state such as color changed
	AppendedEvent EventType = "appended" // a log entry was written
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
