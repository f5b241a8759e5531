package triggerengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

var _ secondary.DocumentStore = &EventingStore{}

// EventingStore wraps a DocumentStore and publishes a DocumentEvent for
// every committed write. Transaction events carry the before image read
// at transaction time and are published only after a successful commit.
type EventingStore struct {
	inner  secondary.DocumentStore
	engine *Engine
}

func NewEventingStore(inner secondary.DocumentStore, engine *Engine) *EventingStore {
	return &EventingStore{inner: inner, engine: engine}
}

func (s *EventingStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	return s.inner.Get(ctx, collection, id, out)
}

func (s *EventingStore) GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	return s.inner.GetAll(ctx, collection)
}

func (s *EventingStore) Create(ctx context.Context, collection, id string, doc interface{}) error {
	after, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}
	if err := s.inner.Create(ctx, collection, id, doc); err != nil {
		return err
	}
	s.engine.Publish(primary.DocumentEvent{
		Collection: collection,
		ID:         id,
		After:      after,
	})
	return nil
}

func (s *EventingStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx secondary.DocTx) error) error {
	var events []primary.DocumentEvent
	err := s.inner.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
		events = events[:0]
		rtx := &recordingTx{ctx: ctx, tx: tx, events: &events}
		return fn(ctx, rtx)
	})
	if err != nil {
		return err
	}
	for _, event := range events {
		s.engine.Publish(event)
	}
	return nil
}

// recordingTx captures before/after images for each staged write. The
// before read joins the transaction's read set, which is exactly the
// consistency we want: the image published is the one the commit
// validated against.
type recordingTx struct {
	ctx    context.Context
	tx     secondary.DocTx
	events *[]primary.DocumentEvent
}

var _ secondary.DocTx = &recordingTx{}

func (t *recordingTx) Get(ctx context.Context, collection, id string, out interface{}) error {
	return t.tx.Get(ctx, collection, id, out)
}

func (t *recordingTx) GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	return t.tx.GetAll(ctx, collection)
}

func (t *recordingTx) Set(collection, id string, doc interface{}) {
	var before json.RawMessage
	if err := t.tx.Get(t.ctx, collection, id, &before); err != nil {
		if !errors.Is(err, errs.DocNotFound) {
			// Leave Before nil; the write itself still goes through.
			before = nil
		}
	}
	after, err := json.Marshal(doc)
	if err != nil {
		// The inner tx will surface the marshal failure at commit.
		t.tx.Set(collection, id, doc)
		return
	}
	*t.events = append(*t.events, primary.DocumentEvent{
		Collection: collection,
		ID:         id,
		Before:     before,
		After:      after,
	})
	t.tx.Set(collection, id, doc)
}
