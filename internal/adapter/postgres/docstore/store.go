// Package docstore implements the DocumentStore port on PostgreSQL: one
// documents table keyed by (collection, id) with a jsonb payload.
// Transactions run SERIALIZABLE; a serialization failure (SQLSTATE
// 40001) maps to the conflict sentinel so callers see the same
// optimistic semantics as the redis adapter.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/golfhub-2025.net/internal/core/ports/primary"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
	querybuilder "gitlab.com/golfhub-2025.net/internal/utils"
)

const documentsTable = "documents"

var _ secondary.DocumentStore = &Store{}

// Store is the PostgreSQL-backed document store.
type Store struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewStore creates a new Postgres document store.
func NewStore(db *sqlx.DB, logger primary.Logger, schema string) *Store {
	return &Store{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       JSONB NOT NULL,
		PRIMARY KEY (collection, id)
	)`, documentsTable)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure documents table: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string, out interface{}) error {
	return getDocument(ctx, s.db, s.schema, collection, id, out)
}

func (s *Store) GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	return getAllDocuments(ctx, s.db, s.schema, collection)
}

func (s *Store) Create(ctx context.Context, collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
	}

	query, args := querybuilder.NewQueryBuilder(s.schema).
		Insert("collection", "id", "data").
		Into(documentsTable).
		Values(collection, id, data).
		OnConflict("collection", "id").
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create document %s/%s: %w", collection, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create document %s/%s: %w", collection, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, errs.DocExists)
	}
	return nil
}

func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx secondary.DocTx) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &pgTx{sqlTx: sqlTx, schema: s.schema}
	if err := fn(ctx, tx); err != nil {
		_ = sqlTx.Rollback()
		return mapSerializationFailure(err)
	}
	if tx.stageErr != nil {
		_ = sqlTx.Rollback()
		return tx.stageErr
	}

	for _, w := range tx.writes {
		query, args := querybuilder.NewQueryBuilder(s.schema).
			Insert("collection", "id", "data").
			Into(documentsTable).
			Values(w.collection, w.id, w.data).
			OnConflict("collection", "id").
			DoUpdate("data").
			Build()
		query = sqlx.Rebind(sqlx.DOLLAR, query)
		if _, err := sqlTx.ExecContext(ctx, query, args...); err != nil {
			_ = sqlTx.Rollback()
			return mapSerializationFailure(fmt.Errorf("failed to write document %s/%s: %w", w.collection, w.id, err))
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return mapSerializationFailure(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// mapSerializationFailure folds SQLSTATE 40001 into the conflict
// sentinel the retry wrapper looks for.
func mapSerializationFailure(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "40001" {
		return fmt.Errorf("%v: %w", err, errs.TxConflict)
	}
	return err
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
}

func getDocument(ctx context.Context, q queryer, schema, collection, id string, out interface{}) error {
	query, args := querybuilder.NewQueryBuilder(schema).
		Select("data").
		From(documentsTable).
		Where("collection = ?", collection).
		And("id = ?", id).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var data []byte
	if err := q.GetContext(ctx, &data, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s/%s: %w", collection, id, errs.DocNotFound)
		}
		return fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal document %s/%s: %w", collection, id, err)
	}
	return nil
}

func getAllDocuments(ctx context.Context, q queryer, schema, collection string) (map[string]json.RawMessage, error) {
	query, args := querybuilder.NewQueryBuilder(schema).
		Select("id", "data").
		From(documentsTable).
		Where("collection = ?", collection).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make(map[string]json.RawMessage)
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs[id] = json.RawMessage(data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	return docs, nil
}

type stagedWrite struct {
	collection string
	id         string
	data       json.RawMessage
}

type pgTx struct {
	sqlTx    *sqlx.Tx
	schema   string
	writes   []stagedWrite
	stageErr error
}

var _ secondary.DocTx = &pgTx{}

func (t *pgTx) Get(ctx context.Context, collection, id string, out interface{}) error {
	return getDocument(ctx, t.sqlTx, t.schema, collection, id, out)
}

func (t *pgTx) GetAll(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	return getAllDocuments(ctx, t.sqlTx, t.schema, collection)
}

func (t *pgTx) Set(collection, id string, doc interface{}) {
	data, err := json.Marshal(doc)
	if err != nil {
		if t.stageErr == nil {
			t.stageErr = fmt.Errorf("failed to marshal document %s/%s: %w", collection, id, err)
		}
		return
	}
	t.writes = append(t.writes, stagedWrite{collection: collection, id: id, data: data})
}
