// Package triggerengine delivers document change events to registered
// handlers. All writes in this system funnel through the store adapters,
// so the eventing store wrapper in this package is the change feed; no
// external trigger platform is assumed.
package triggerengine

import (
	"context"
	"sync"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
)

var _ primary.EventSubscriber = &Engine{}

// Engine fans document events out to per-collection handlers. Handlers
// run concurrently, one goroutine per handler invocation; a handler
// error is an operational fault and is logged, never propagated back to
// the writer that produced the event.
type Engine struct {
	logger primary.Logger

	mu      sync.RWMutex
	creates map[string][]primary.EventHandler
	updates map[string][]primary.EventHandler

	events chan primary.DocumentEvent
	wg     sync.WaitGroup
}

func NewEngine(logger primary.Logger) *Engine {
	return &Engine{
		logger:  logger,
		creates: make(map[string][]primary.EventHandler),
		updates: make(map[string][]primary.EventHandler),
		events:  make(chan primary.DocumentEvent, 256),
	}
}

// OnCreate registers a handler for creations in a collection.
func (e *Engine) OnCreate(collection string, handler primary.EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.creates[collection] = append(e.creates[collection], handler)
}

// OnUpdate registers a handler for updates in a collection.
func (e *Engine) OnUpdate(collection string, handler primary.EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updates[collection] = append(e.updates[collection], handler)
}

// Publish queues one event for delivery.
func (e *Engine) Publish(event primary.DocumentEvent) {
	e.events <- event
}

// Start consumes queued events until ctx is cancelled.
func (e *Engine) Start(ctx context.Context) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-e.events:
				e.dispatch(ctx, event)
			}
		}
	}()
}

// Stop waits for the dispatch loop to drain.
func (e *Engine) Stop() {
	e.wg.Wait()
}

func (e *Engine) dispatch(ctx context.Context, event primary.DocumentEvent) {
	e.mu.RLock()
	var handlers []primary.EventHandler
	if event.Before == nil {
		handlers = append(handlers, e.creates[event.Collection]...)
	} else {
		handlers = append(handlers, e.updates[event.Collection]...)
	}
	e.mu.RUnlock()

	for _, handler := range handlers {
		handler := handler
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("Trigger handler panicked", "collection", event.Collection, "id", event.ID, "panic", r)
				}
			}()
			if err := handler(ctx, event); err != nil {
				e.logger.Error("Trigger handler failed", "collection", event.Collection, "id", event.ID, "error", err)
			}
		}()
	}
}
