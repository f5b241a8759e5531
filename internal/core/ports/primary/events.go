package primary

import (
	"context"
	"encoding/json"
)

// DocumentEvent describes one observed change to a stored document.
// Before is nil for creations.
type DocumentEvent struct {
	Collection string
	ID         string
	Before     json.RawMessage
	After      json.RawMessage
}

// EventHandler processes one document change. A returned error is an
// operational fault: it is logged by the dispatching engine and never
// propagated back to the writer.
type EventHandler func(ctx context.Context, event DocumentEvent) error

// EventSubscriber registers change handlers per collection. Delivery is
// at-least-once; handlers must tolerate replays.
type EventSubscriber interface {
	OnCreate(collection string, handler EventHandler)
	OnUpdate(collection string, handler EventHandler)
}
