package accept

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/golfhub-2025.net/internal/adapter/logging"
	memorystore "gitlab.com/golfhub-2025.net/internal/adapter/memory/docstore"
	"gitlab.com/golfhub-2025.net/internal/core/ports/secondary"
	"gitlab.com/golfhub-2025.net/internal/core/services/colors"
	"gitlab.com/golfhub-2025.net/internal/core/services/gate"
	"gitlab.com/golfhub-2025.net/internal/core/services/ranking"
	"gitlab.com/golfhub-2025.net/internal/core/services/submission"
	"gitlab.com/golfhub-2025.net/internal/domain"
	"gitlab.com/golfhub-2025.net/internal/triggerengine"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	requests []secondary.DispatchRequest
}

func (d *recordingDispatcher) Enqueue(ctx context.Context, req secondary.DispatchRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

// Wires the full chain the way main does: submission writes flow through
// the eventing store, the gate admits on creation, and the coordinator
// claims on the running-to-accepted edge.
func TestAcceptancePipelineEndToEnd(t *testing.T) {
	logger := logging.NewZapLogger()
	engine := triggerengine.NewEngine(logger)
	store := triggerengine.NewEventingStore(memorystore.NewStore(), engine)
	dispatcher := &recordingDispatcher{}

	gateSvc := gate.NewSizeGateService(store, dispatcher, logger)
	acceptSvc := NewAcceptanceService(store,
		colors.NewColorAllocatorService(store, logger),
		ranking.NewRankingService(store, logger),
		logger)
	submissionSvc := submission.NewSubmissionService(store, logger)

	gateSvc.Register(engine)
	acceptSvc.Register(engine)

	ctx, cancel := context.WithCancel(context.Background())
	engine.Start(ctx)

	require.NoError(t, store.Create(ctx, domain.CollectionTasks, "t1", domain.Task{}))
	require.NoError(t, store.Create(ctx, domain.CollectionTaskData, "t1", domain.TaskData{}))
	require.NoError(t, store.Create(ctx, domain.CollectionUsers, "u1", domain.User{DisplayName: "one"}))

	id, err := submissionSvc.Create(ctx, "u1", "t1", "0123456789")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return dispatcher.count() == 1 },
		2*time.Second, 10*time.Millisecond, "gate must admit and dispatch the submission")

	require.NoError(t, submissionSvc.ReportStarted(ctx, id))
	require.NoError(t, submissionSvc.ReportCompleted(ctx, id, domain.SubmissionAccepted, nil))

	require.Eventually(t, func() bool {
		var task domain.Task
		if err := store.Get(ctx, domain.CollectionTasks, "t1", &task); err != nil {
			return false
		}
		return task.Claimed()
	}, 2*time.Second, 10*time.Millisecond, "coordinator must claim the task")

	cancel()
	engine.Stop()

	var task domain.Task
	require.NoError(t, store.Get(ctx, domain.CollectionTasks, "t1", &task))
	assert.Equal(t, "u1", *task.Owner)
	assert.Equal(t, id, *task.BestSubmission)
	assert.Equal(t, 10, *task.Bytes)

	var user domain.User
	require.NoError(t, store.Get(ctx, domain.CollectionUsers, "u1", &user))
	assert.Equal(t, domain.ContributionScore(10), user.Contributions)
	assert.Equal(t, 1, user.ShortestSubmissions)
	require.NotNil(t, user.ColorIndex)
	assert.Equal(t, 0, *user.ColorIndex)
}

// A second submission tying the recorded best must be rejected by the
// gate without ever reaching the dispatcher.
func TestPipelineRejectsTieWithoutDispatch(t *testing.T) {
	logger := logging.NewZapLogger()
	engine := triggerengine.NewEngine(logger)
	store := triggerengine.NewEventingStore(memorystore.NewStore(), engine)
	dispatcher := &recordingDispatcher{}

	gateSvc := gate.NewSizeGateService(store, dispatcher, logger)
	submissionSvc := submission.NewSubmissionService(store, logger)
	gateSvc.Register(engine)

	ctx, cancel := context.WithCancel(context.Background())
	engine.Start(ctx)

	best := 10
	require.NoError(t, store.Create(ctx, domain.CollectionTasks, "t1", domain.Task{Bytes: &best}))
	require.NoError(t, store.Create(ctx, domain.CollectionTaskData, "t1", domain.TaskData{}))

	id, err := submissionSvc.Create(ctx, "u2", "t1", "0123456789")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		view, err := submissionSvc.Get(ctx, id)
		return err == nil && view.Status == domain.SubmissionRejected
	}, 2*time.Second, 10*time.Millisecond, "gate must reject the tie")

	cancel()
	engine.Stop()

	assert.Zero(t, dispatcher.count())
}
