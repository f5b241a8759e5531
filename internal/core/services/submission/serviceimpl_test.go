package submission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/golfhub-2025.net/internal/adapter/logging"
	memorystore "gitlab.com/golfhub-2025.net/internal/adapter/memory/docstore"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/static/errs"
)

func newService() (*SubmissionService, *memorystore.Store) {
	store := memorystore.NewStore()
	return NewSubmissionService(store, logging.NewZapLogger()), store
}

func TestCreateWritesPendingSubmission(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "t1", "print(1)")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var stored domain.Submission
	require.NoError(t, store.Get(ctx, domain.CollectionSubmissions, id, &stored))
	assert.Equal(t, "u1", stored.User)
	assert.Equal(t, "t1", stored.Task)
	assert.Equal(t, "print(1)", stored.Code)
	assert.Equal(t, len("print(1)"), stored.Size)
	assert.Equal(t, domain.SubmissionPending, stored.Status)
	assert.Nil(t, stored.ExecutedAt)
	assert.NotNil(t, stored.Results)
	assert.Empty(t, stored.Results)
}

func TestGetMissingSubmission(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, errs.DocNotFound)
}

func TestReportStartedTransitions(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "t1", "code")
	require.NoError(t, err)

	require.NoError(t, svc.ReportStarted(ctx, id))

	var stored domain.Submission
	require.NoError(t, store.Get(ctx, domain.CollectionSubmissions, id, &stored))
	assert.Equal(t, domain.SubmissionRunning, stored.Status)

	// Replayed start report remains a no-op.
	require.NoError(t, svc.ReportStarted(ctx, id))
}

func TestReportStartedOnTerminalSubmission(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "t1", "code")
	require.NoError(t, err)
	require.NoError(t, svc.ReportStarted(ctx, id))
	require.NoError(t, svc.ReportCompleted(ctx, id, domain.SubmissionRejected, nil))

	err = svc.ReportStarted(ctx, id)
	assert.ErrorIs(t, err, errs.TerminalImmutable)
}

func TestReportCompletedWritesResults(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "t1", "code")
	require.NoError(t, err)
	require.NoError(t, svc.ReportStarted(ctx, id))

	results := []domain.SubmissionTestcase{
		{TestCaseID: "tc1", Input: "1", Expected: "2", Actual: "2", Status: domain.SubmissionAccepted},
	}
	require.NoError(t, svc.ReportCompleted(ctx, id, domain.SubmissionAccepted, results))

	var stored domain.Submission
	require.NoError(t, store.Get(ctx, domain.CollectionSubmissions, id, &stored))
	assert.Equal(t, domain.SubmissionAccepted, stored.Status)
	require.NotNil(t, stored.ExecutedAt)
	assert.WithinDuration(t, time.Now(), *stored.ExecutedAt, time.Minute)
	assert.Equal(t, results, stored.Results)
}

func TestReportCompletedRejectsNonTerminalStatus(t *testing.T) {
	svc, _ := newService()

	err := svc.ReportCompleted(context.Background(), "s1", domain.SubmissionRunning, nil)
	assert.Error(t, err)
}

func TestReportCompletedTwice(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "u1", "t1", "code")
	require.NoError(t, err)
	require.NoError(t, svc.ReportStarted(ctx, id))
	require.NoError(t, svc.ReportCompleted(ctx, id, domain.SubmissionAccepted, nil))

	err = svc.ReportCompleted(ctx, id, domain.SubmissionRejected, nil)
	assert.ErrorIs(t, err, errs.TerminalImmutable)
}

func TestListByTaskFiltersSortsAndLimits(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	older := domain.NewSubmission("u1", "t1", "aaa")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := domain.NewSubmission("u2", "t1", "bbbb")
	other := domain.NewSubmission("u1", "t2", "cc")
	require.NoError(t, store.Create(ctx, domain.CollectionSubmissions, "s-old", older))
	require.NoError(t, store.Create(ctx, domain.CollectionSubmissions, "s-new", newer))
	require.NoError(t, store.Create(ctx, domain.CollectionSubmissions, "s-other", other))

	views, err := svc.ListByTask(ctx, "t1", 0)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "s-new", views[0].ID)
	assert.Equal(t, "s-old", views[1].ID)

	limited, err := svc.ListByTask(ctx, "t1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "s-new", limited[0].ID)

	all, err := svc.ListByTask(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
