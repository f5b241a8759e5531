package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/golfhub-2025.net/internal/adapter/logging"
	memorystore "gitlab.com/golfhub-2025.net/internal/adapter/memory/docstore"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

func newService() (*BoardService, *memorystore.Store) {
	store := memorystore.NewStore()
	return NewBoardService(store, logging.NewZapLogger()), store
}

func sampleData() domain.TaskData {
	return domain.TaskData{
		Train: []domain.GridExample{{Input: "12\n34", Output: "43\n21"}},
		Test:  []domain.GridExample{{Input: "5", Output: "5"}},
	}
}

func TestSeedTaskCreatesBothDocuments(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	arc := "arc-007"
	id, err := svc.SeedTask(ctx, "", &arc, sampleData())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var task domain.Task
	require.NoError(t, store.Get(ctx, domain.CollectionTasks, id, &task))
	assert.False(t, task.Claimed())
	require.NotNil(t, task.ArcTaskID)
	assert.Equal(t, "arc-007", *task.ArcTaskID)

	var data domain.TaskData
	require.NoError(t, store.Get(ctx, domain.CollectionTaskData, id, &data))
	assert.Len(t, data.Train, 1)
}

func TestSeedTaskDuplicateID(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.SeedTask(ctx, "fixed", nil, sampleData())
	require.NoError(t, err)

	_, err = svc.SeedTask(ctx, "fixed", nil, sampleData())
	assert.ErrorIs(t, err, errs.DocExists)
}

func TestGetTaskMissing(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetTask(context.Background(), "nope")
	assert.ErrorIs(t, err, errs.DocNotFound)
}

func TestRankingOrder(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u1",
		domain.User{DisplayName: "one", ShortestSubmissions: 1, Contributions: 50}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u2",
		domain.User{DisplayName: "two", ShortestSubmissions: 3, Contributions: 10}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u3",
		domain.User{DisplayName: "three", ShortestSubmissions: 1, Contributions: 90}))

	entries, err := svc.Ranking(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "u2", entries[0].UserID, "owned-task count dominates")
	assert.Equal(t, "u3", entries[1].UserID, "contributions break ties")
	assert.Equal(t, "u1", entries[2].UserID)
}

func TestGetUser(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u1", domain.User{DisplayName: "one"}))

	user, err := svc.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "one", user.DisplayName)

	_, err = svc.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, errs.DocNotFound)
}
