// Package docstore is an in-process DocumentStore with the same
// optimistic-conflict semantics as the redis and postgres adapters. It
// backs tests and debug mode.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

var _ secondary.DocumentStore = &Store{}

type document struct {
	data    json.RawMessage
	version int64
}

// Store keeps every collection in memory. Each document carries a
// version, and each collection carries a version bumped on any write to
// it; transactions validate both at commit time.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]*document
	colVersions map[string]int64
}

func NewStore() *Store {
	return &Store{
		collections: make(map[string]map[string]*document),
		colVersions: make(map[string]int64),
	}
}

func (s *Store) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.collections[collection][id]
	if doc == nil {
		return fmt.Errorf("%s/%s: %w", collection, id, errs.DocNotFound)
	}
	return json.Unmarshal(doc.data, out)
}

func (s *Store) GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(collection), nil
}

func (s *Store) Create(ctx context.Context, collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection][id] != nil {
		return fmt.Errorf("%s/%s: %w", collection, id, errs.DocExists)
	}
	s.writeLocked(collection, id, data)
	return nil
}

func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx secondary.DocTx) error) error {
	tx := &memTx{
		store:    s,
		readDocs: make(map[string]int64),
		readCols: make(map[string]int64),
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if tx.stageErr != nil {
		return tx.stageErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Commit only if everything read is still at the version it was
	// read at; otherwise a concurrent writer won.
	for key, version := range tx.readDocs {
		collection, id := splitKey(key)
		current := int64(0)
		if doc := s.collections[collection][id]; doc != nil {
			current = doc.version
		}
		if current != version {
			return fmt.Errorf("%s: %w", key, errs.TxConflict)
		}
	}
	for collection, version := range tx.readCols {
		if s.colVersions[collection] != version {
			return fmt.Errorf("collection %s: %w", collection, errs.TxConflict)
		}
	}

	for _, w := range tx.writes {
		s.writeLocked(w.collection, w.id, w.data)
	}
	return nil
}

func (s *Store) snapshotLocked(collection string) map[string]json.RawMessage {
	docs := make(map[string]json.RawMessage, len(s.collections[collection]))
	for id, doc := range s.collections[collection] {
		data := make(json.RawMessage, len(doc.data))
		copy(data, doc.data)
		docs[id] = data
	}
	return docs
}

func (s *Store) writeLocked(collection, id string, data json.RawMessage) {
	col := s.collections[collection]
	if col == nil {
		col = make(map[string]*document)
		s.collections[collection] = col
	}
	version := int64(1)
	if existing := col[id]; existing != nil {
		version = existing.version + 1
	}
	col[id] = &document{data: data, version: version}
	s.colVersions[collection]++
}

type stagedWrite struct {
	collection string
	id         string
	data       json.RawMessage
}

type memTx struct {
	store    *Store
	readDocs map[string]int64
	readCols map[string]int64
	writes   []stagedWrite
	stageErr error
}

var _ secondary.DocTx = &memTx{}

func (t *memTx) Get(ctx context.Context, collection, id string, out interface{}) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	doc := t.store.collections[collection][id]
	version := int64(0)
	if doc != nil {
		version = doc.version
	}
	// Absent documents join the read set too, so a concurrent creation
	// still conflicts.
	t.readDocs[docKey(collection, id)] = version

	if doc == nil {
		return fmt.Errorf("%s/%s: %w", collection, id, errs.DocNotFound)
	}
	return json.Unmarshal(doc.data, out)
}

func (t *memTx) GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	t.readCols[collection] = t.store.colVersions[collection]
	return t.store.snapshotLocked(collection), nil
}

func (t *memTx) Set(collection, id string, doc interface{}) {
	data, err := json.Marshal(doc)
	if err != nil {
		if t.stageErr == nil {
			t.stageErr = fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
		}
		return
	}
	t.writes = append(t.writes, stagedWrite{collection: collection, id: id, data: data})
}

func docKey(collection, id string) string {
	return collection + "/" + id
}

func splitKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
