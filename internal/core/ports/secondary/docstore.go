package secondary

import (
	"context"
	"encoding/json"
)

// DocTx is the view of the store inside one optimistic transaction.
// Reads are snapshot-consistent; writes are staged and committed
// atomically when the transaction function returns nil. If any document
// (or collection, for GetAll) read inside the transaction changed before
// commit, the commit fails with errs.TxConflict and nothing is written.
type DocTx interface {
	// Get reads a document into out. Returns errs.DocNotFound when absent.
	Get(ctx context.Context, collection, id string, out interface{}) error

	// GetAll reads every document of a collection, keyed by id.
	GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error)

	// Set stages a full-document write.
	Set(collection, id string, doc interface{})
}

// DocumentStore is the transactional document database port.
type DocumentStore interface {
	// Get reads a document into out. Returns errs.DocNotFound when absent.
	Get(ctx context.Context, collection, id string, out interface{}) error

	// GetAll reads every document of a collection, keyed by id.
	GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error)

	// Create writes a new document; errs.DocExists when the id is taken.
	Create(ctx context.Context, collection, id string, doc interface{}) error

	// RunTransaction runs fn once against a transactional view and
	// commits its staged writes. Returns errs.TxConflict when a read
	// document changed before commit; callers decide whether to retry.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx DocTx) error) error
}
