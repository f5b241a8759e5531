package accept

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/golfhub-2025.net/internal/adapter/logging"
	memorystore "gitlab.com/golfhub-2025.net/internal/adapter/memory/docstore"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/core/services/colors"
	"gitlab.com/golfhub-2025.net/internal/core/services/ranking"
	"gitlab.com/golfhub-2025.net/internal/domain"
)

func newTestService(store secondary.DocumentStore) *AcceptanceService {
	logger := logging.NewZapLogger()
	return NewAcceptanceService(store,
		colors.NewColorAllocatorService(store, logger),
		ranking.NewRankingService(store, logger),
		logger)
}

func acceptedPair(userID, taskID, code string) (before, after domain.Submission) {
	sub := domain.NewSubmission(userID, taskID, code)
	before = *sub
	before.Status = domain.SubmissionRunning
	after = before
	after.Status = domain.SubmissionAccepted
	return before, after
}

func getTask(t *testing.T, store secondary.DocumentStore, taskID string) domain.Task {
	t.Helper()
	var task domain.Task
	require.NoError(t, store.Get(context.Background(), domain.CollectionTasks, taskID, &task))
	return task
}

func getUser(t *testing.T, store secondary.DocumentStore, userID string) domain.User {
	t.Helper()
	var user domain.User
	require.NoError(t, store.Get(context.Background(), domain.CollectionUsers, userID, &user))
	return user
}

func TestIgnoresNonAcceptanceEdges(t *testing.T) {
	store := memorystore.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.CollectionTasks, "t1", domain.Task{}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u1", domain.User{DisplayName: "one"}))

	before, after := acceptedPair("u1", "t1", "code")

	// pending -> accepted never starts the pipeline
	pendingBefore := before
	pendingBefore.Status = domain.SubmissionPending
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s1", pendingBefore, after))
	assert.False(t, getTask(t, store, "t1").Claimed())

	// running -> rejected never starts the pipeline
	rejected := after
	rejected.Status = domain.SubmissionRejected
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s1", before, rejected))
	assert.False(t, getTask(t, store, "t1").Claimed())
}

func TestFirstClaimOnUnclaimedTask(t *testing.T) {
	store := memorystore.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.CollectionTasks, "t1", domain.Task{}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u1", domain.User{DisplayName: "one"}))

	before, after := acceptedPair("u1", "t1", "0123456789")
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s1", before, after))

	task := getTask(t, store, "t1")
	require.True(t, task.Claimed())
	assert.Equal(t, "u1", *task.Owner)
	assert.Equal(t, "s1", *task.BestSubmission)
	assert.Equal(t, 10, *task.Bytes)
	assert.NotNil(t, task.OwnerLastChangedAt)

	user := getUser(t, store, "u1")
	assert.Equal(t, domain.ContributionScore(10), user.Contributions)
	require.NotNil(t, user.ColorIndex)
	assert.Equal(t, 0, *user.ColorIndex)
	assert.Equal(t, 1, user.ShortestSubmissions)
}

func TestShorterSubmissionDisplacesOwner(t *testing.T) {
	store := memorystore.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.CollectionTasks, "t1", domain.Task{}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u1", domain.User{DisplayName: "one"}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u2", domain.User{DisplayName: "two"}))

	before, after := acceptedPair("u1", "t1", "0123456789")
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s1", before, after))

	before2, after2 := acceptedPair("u2", "t1", "01234")
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s2", before2, after2))

	task := getTask(t, store, "t1")
	assert.Equal(t, "u2", *task.Owner)
	assert.Equal(t, "s2", *task.BestSubmission)
	assert.Equal(t, 5, *task.Bytes)

	// The displaced owner keeps contributions but loses the count.
	u1 := getUser(t, store, "u1")
	assert.Equal(t, domain.ContributionScore(10), u1.Contributions)
	assert.Equal(t, 0, u1.ShortestSubmissions)

	// The new owner is credited the score difference only.
	u2 := getUser(t, store, "u2")
	assert.Equal(t, domain.ContributionScore(5)-domain.ContributionScore(10), u2.Contributions)
	assert.Equal(t, 1, u2.ShortestSubmissions)
	require.NotNil(t, u2.ColorIndex)
	assert.Equal(t, 1, *u2.ColorIndex)
}

func TestLongerAcceptanceDoesNotClaim(t *testing.T) {
	store := memorystore.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.CollectionTasks, "t1", domain.Task{}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u1", domain.User{DisplayName: "one"}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u2", domain.User{DisplayName: "two"}))

	before, after := acceptedPair("u1", "t1", "short")
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s1", before, after))

	before2, after2 := acceptedPair("u2", "t1", "something much longer")
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s2", before2, after2))

	task := getTask(t, store, "t1")
	assert.Equal(t, "u1", *task.Owner)

	u2 := getUser(t, store, "u2")
	assert.Equal(t, 0, u2.Contributions)
	assert.Nil(t, u2.ColorIndex)
}

func TestReplayedAcceptanceIsIdempotent(t *testing.T) {
	store := memorystore.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.CollectionTasks, "t1", domain.Task{}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u1", domain.User{DisplayName: "one"}))

	before, after := acceptedPair("u1", "t1", "0123456789")
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s1", before, after))
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s1", before, after))

	user := getUser(t, store, "u1")
	assert.Equal(t, domain.ContributionScore(10), user.Contributions, "replay must not credit twice")
	assert.Equal(t, 1, user.ShortestSubmissions)
}

func TestMissingUserStillClaimsTask(t *testing.T) {
	store := memorystore.NewStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, domain.CollectionTasks, "t1", domain.Task{}))

	before, after := acceptedPair("ghost", "t1", "code")
	require.NoError(t, svc.HandleSubmissionUpdated(ctx, "s1", before, after))

	task := getTask(t, store, "t1")
	require.True(t, task.Claimed())
	assert.Equal(t, "ghost", *task.Owner)
}
