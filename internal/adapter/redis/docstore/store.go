// Package docstore implements the DocumentStore port on Redis. Documents
// are JSON strings, each collection keeps a set of its ids and a version
// counter bumped on every committed write; transactions are WATCH-based,
// watching each read document plus the version counter of each scanned
// collection, so the MULTI/EXEC commit fails on any concurrent write to
// the read set.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

const (
	docKeyPrefix = "doc:"
	idsKeyPrefix = "ids:"
	verKeyPrefix = "ver:"
)

var _ secondary.DocumentStore = &Store{}

// Store is the Redis-backed document store.
type Store struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewStore creates a new Redis document store.
func NewStore(redisClient *redis.Client, logger primary.Logger) *Store {
	return &Store{
		redisClient: redisClient,
		logger:      logger,
	}
}

func docKey(collection, id string) string {
	return fmt.Sprintf("%s%s:%s", docKeyPrefix, collection, id)
}

func idsKey(collection string) string {
	return idsKeyPrefix + collection
}

func verKey(collection string) string {
	return verKeyPrefix + collection
}

func (s *Store) Get(ctx context.Context, collection, id string, out interface{}) error {
	data, err := s.redisClient.Get(ctx, docKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s/%s: %w", collection, id, errs.DocNotFound)
		}
		return fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	ids, err := s.redisClient.SMembers(ctx, idsKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}
	return s.fetchAll(ctx, s.redisClient, collection, ids)
}

// fetchAll MGETs the documents for the given ids. cmd is either the
// plain client or an open transaction.
func (s *Store) fetchAll(ctx context.Context, cmd redis.Cmdable, collection string, ids []string) (map[string]json.RawMessage, error) {
	docs := make(map[string]json.RawMessage, len(ids))
	if len(ids) == 0 {
		return docs, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(collection, id)
	}
	values, err := cmd.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collection %s: %w", collection, err)
	}
	for i, value := range values {
		if value == nil {
			// Index entry without a document: a half-applied delete,
			// skip it.
			continue
		}
		docs[ids[i]] = json.RawMessage(value.(string))
	}
	return docs, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}

	key := docKey(collection, id)
	err = s.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists != 0 {
			return fmt.Errorf("%s/%s: %w", collection, id, errs.DocExists)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, idsKey(collection), id)
			pipe.Incr(ctx, verKey(collection))
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("create %s/%s: %w", collection, id, errs.TxConflict)
	}
	return err
}

func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx secondary.DocTx) error) error {
	err := s.redisClient.Watch(ctx, func(rtx *redis.Tx) error {
		tx := &redisTx{store: s, tx: rtx}
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if tx.stageErr != nil {
			return tx.stageErr
		}
		if len(tx.writes) == 0 {
			return nil
		}

		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			touched := make(map[string]bool)
			for _, w := range tx.writes {
				pipe.Set(ctx, docKey(w.collection, w.id), []byte(w.data), 0)
				pipe.SAdd(ctx, idsKey(w.collection), w.id)
				touched[w.collection] = true
			}
			for collection := range touched {
				pipe.Incr(ctx, verKey(collection))
			}
			return nil
		})
		return err
	})
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("commit: %w", errs.TxConflict)
	}
	return err
}

type stagedWrite struct {
	collection string
	id         string
	data       json.RawMessage
}

type redisTx struct {
	store    *Store
	tx       *redis.Tx
	writes   []stagedWrite
	stageErr error
}

var _ secondary.DocTx = &redisTx{}

func (t *redisTx) Get(ctx context.Context, collection, id string, out interface{}) error {
	key := docKey(collection, id)
	// Watch before reading; an absent document is watched too, so a
	// concurrent creation invalidates the commit.
	if err := t.tx.Watch(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to watch %s: %w", key, err)
	}

	data, err := t.tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s/%s: %w", collection, id, errs.DocNotFound)
		}
		return fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (t *redisTx) GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	// The collection version counter stands in for the whole scan: any
	// committed write to the collection bumps it.
	if err := t.tx.Watch(ctx, verKey(collection)).Err(); err != nil {
		return nil, fmt.Errorf("failed to watch collection %s: %w", collection, err)
	}
	ids, err := t.tx.SMembers(ctx, idsKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}
	return t.store.fetchAll(ctx, t.tx, collection, ids)
}

func (t *redisTx) Set(collection, id string, doc interface{}) {
	data, err := json.Marshal(doc)
	if err != nil {
		if t.stageErr == nil {
			t.stageErr = fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
		}
		return
	}
	t.writes = append(t.writes, stagedWrite{collection: collection, id: id, data: data})
}
