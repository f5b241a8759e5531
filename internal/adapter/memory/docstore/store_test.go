package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCreateAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "things", "a", testDoc{Name: "first", Count: 1}))

	var got testDoc
	require.NoError(t, store.Get(ctx, "things", "a", &got))
	assert.Equal(t, testDoc{Name: "first", Count: 1}, got)
}

func TestCreateDuplicate(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "things", "a", testDoc{Name: "first"}))
	err := store.Create(ctx, "things", "a", testDoc{Name: "second"})
	assert.ErrorIs(t, err, errs.DocExists)
}

func TestGetMissing(t *testing.T) {
	store := NewStore()

	var got testDoc
	err := store.Get(context.Background(), "things", "nope", &got)
	assert.ErrorIs(t, err, errs.DocNotFound)
}

func TestGetAllSnapshots(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "things", "a", testDoc{Name: "first"}))
	require.NoError(t, store.Create(ctx, "things", "b", testDoc{Name: "second"}))

	all, err := store.GetAll(ctx, "things")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "a")
	assert.Contains(t, all, "b")
}

func TestTransactionCommit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "things", "a", testDoc{Name: "first", Count: 1}))

	err := store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
		var doc testDoc
		if err := tx.Get(ctx, "things", "a", &doc); err != nil {
			return err
		}
		doc.Count++
		tx.Set("things", "a", doc)
		return nil
	})
	require.NoError(t, err)

	var got testDoc
	require.NoError(t, store.Get(ctx, "things", "a", &got))
	assert.Equal(t, 2, got.Count)
}

func TestTransactionConflictOnConcurrentWrite(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "things", "a", testDoc{Count: 1}))

	err := store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
		var doc testDoc
		if err := tx.Get(ctx, "things", "a", &doc); err != nil {
			return err
		}

		// A writer sneaks in between read and commit.
		require.NoError(t, store.RunTransaction(ctx, func(ctx context.Context, inner secondary.DocTx) error {
			inner.Set("things", "a", testDoc{Count: 99})
			return nil
		}))

		doc.Count++
		tx.Set("things", "a", doc)
		return nil
	})
	assert.ErrorIs(t, err, errs.TxConflict)

	var got testDoc
	require.NoError(t, store.Get(ctx, "things", "a", &got))
	assert.Equal(t, 99, got.Count, "losing transaction must not overwrite the winner")
}

func TestTransactionConflictOnAbsentDocumentCreated(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
		var doc testDoc
		getErr := tx.Get(ctx, "things", "a", &doc)
		require.ErrorIs(t, getErr, errs.DocNotFound)

		require.NoError(t, store.Create(ctx, "things", "a", testDoc{Count: 5}))

		tx.Set("things", "a", testDoc{Count: 1})
		return nil
	})
	assert.ErrorIs(t, err, errs.TxConflict)
}

func TestTransactionConflictOnScannedCollectionWrite(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "things", "a", testDoc{Count: 1}))

	err := store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
		if _, err := tx.GetAll(ctx, "things"); err != nil {
			return err
		}

		require.NoError(t, store.Create(ctx, "things", "b", testDoc{Count: 2}))

		tx.Set("things", "c", testDoc{Count: 3})
		return nil
	})
	assert.ErrorIs(t, err, errs.TxConflict)
}

func TestTransactionFnErrorAborts(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "things", "a", testDoc{Count: 1}))

	err := store.RunTransaction(ctx, func(ctx context.Context, tx secondary.DocTx) error {
		tx.Set("things", "a", testDoc{Count: 100})
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var got testDoc
	require.NoError(t, store.Get(ctx, "things", "a", &got))
	assert.Equal(t, 1, got.Count, "aborted transaction must not apply staged writes")
}
