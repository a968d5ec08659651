// Package e2e exercises the full task execution path: enqueue through the
// queue facade, claim and execute in a worker pool, record activity
// transitions in PostgreSQL, and publish results to the rendezvous.
package e2e

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/database"
	"github.com/agentexec/agentexec/pkg/pipeline"
	"github.com/agentexec/agentexec/pkg/queue"
	"github.com/agentexec/agentexec/pkg/results"
	"github.com/agentexec/agentexec/pkg/state"
	"github.com/agentexec/agentexec/pkg/task"
	"github.com/agentexec/agentexec/pkg/worker"
	testdb "github.com/agentexec/agentexec/test/database"
)

// fixture wires the whole stack against an isolated PostgreSQL schema:
// the SQL state backend carries the queue, the activity store records
// transitions, and a worker pool drains envelopes.
type fixture struct {
	cfg      *config.Config
	db       *database.Client
	store    *activity.Store
	backend  state.Backend
	codec    *task.Codec
	registry *task.Registry
	queue    *queue.Queue
	results  *results.Store
	pool     *worker.Pool
}

func newFixture(t *testing.T, workers int) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.WorkerCount = workers
	cfg.DequeueTimeout = 100 * time.Millisecond
	cfg.ResultPollInterval = 25 * time.Millisecond
	cfg.GracefulShutdownTimeout = 5 * time.Second
	cfg.StateBackend = config.BackendPostgres

	db := testdb.NewTestClient(t)
	backend := state.NewPostgres(db)
	t.Cleanup(func() { _ = backend.Close() })

	store := activity.NewStore(db, cfg)
	codec := task.NewCodec()
	registry := task.NewRegistry()
	res := results.New(backend, cfg)

	return &fixture{
		cfg:      cfg,
		db:       db,
		store:    store,
		backend:  backend,
		codec:    codec,
		registry: registry,
		queue:    queue.New(backend, registry, store, cfg),
		results:  res,
		pool:     worker.NewPool(backend, registry, store, res, cfg),
	}
}

// start launches the pool and registers a graceful stop on t.
func (fx *fixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, fx.pool.Start(context.Background()))
	t.Cleanup(func() { _ = fx.pool.Shutdown(context.Background()) })
}

// awaitStatus polls until the activity reaches the wanted status.
func (fx *fixture) awaitStatus(t *testing.T, agentID uuid.UUID, want activity.Status) *activity.Detail {
	t.Helper()
	deadline := time.After(15 * time.Second)
	for {
		detail, err := fx.store.Detail(context.Background(), agentID, nil)
		if err == nil && detail.Status == want {
			return detail
		}
		select {
		case <-deadline:
			status := activity.Status("absent")
			if detail != nil {
				status = detail.Status
			}
			t.Fatalf("activity %s never reached %s (last %s)", agentID, want, status)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

type echoContext struct {
	Msg string `json:"msg"`
}

type echoResult struct {
	Msg string `json:"msg"`
}

func TestSimpleTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 1)

	_, err := task.Register(fx.registry, "echo",
		func(_ context.Context, _ uuid.UUID, in echoContext) (echoResult, error) {
			return echoResult(in), nil
		}, task.WithCodec(fx.codec))
	require.NoError(t, err)
	fx.start(t)

	agentID, err := fx.queue.Enqueue(ctx, "echo", echoContext{Msg: "hi"})
	require.NoError(t, err)

	got, err := results.Wait[echoResult](ctx, fx.results, fx.codec, agentID, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Msg)

	detail := fx.awaitStatus(t, agentID, activity.StatusComplete)
	statuses := make([]activity.Status, 0, len(detail.Logs))
	for _, l := range detail.Logs {
		statuses = append(statuses, l.Status)
	}
	assert.Equal(t, []activity.Status{
		activity.StatusQueued,
		activity.StatusRunning,
		activity.StatusComplete,
	}, statuses)

	final := detail.Logs[len(detail.Logs)-1]
	require.NotNil(t, final.Percentage)
	assert.Equal(t, 100, *final.Percentage)
}

func TestHandlerFailureDoesNotKillWorker(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 1)

	_, err := task.Register(fx.registry, "explode",
		func(_ context.Context, _ uuid.UUID, _ echoContext) (echoResult, error) {
			return echoResult{}, fmt.Errorf("boom")
		}, task.WithCodec(fx.codec))
	require.NoError(t, err)
	_, err = task.Register(fx.registry, "echo",
		func(_ context.Context, _ uuid.UUID, in echoContext) (echoResult, error) {
			return echoResult(in), nil
		}, task.WithCodec(fx.codec))
	require.NoError(t, err)
	fx.start(t)

	failedID, err := fx.queue.Enqueue(ctx, "explode", echoContext{Msg: "x"})
	require.NoError(t, err)

	detail := fx.awaitStatus(t, failedID, activity.StatusError)
	assert.Contains(t, detail.Message, "boom")

	_, err = fx.results.Wait(ctx, failedID, 500*time.Millisecond)
	assert.ErrorIs(t, err, results.ErrTimeout, "failed tasks publish no result")

	active, err := fx.store.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, active)

	// The worker survives the failure and keeps draining the queue.
	okID, err := fx.queue.Enqueue(ctx, "echo", echoContext{Msg: "still alive"})
	require.NoError(t, err)
	got, err := results.Wait[echoResult](ctx, fx.results, fx.codec, okID, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "still alive", got.Msg)
}

func TestHighPriorityRunsBeforeEarlierLowPriority(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 1)

	var (
		mu    sync.Mutex
		order []string
	)
	_, err := task.Register(fx.registry, "mark",
		func(_ context.Context, _ uuid.UUID, in echoContext) (echoResult, error) {
			mu.Lock()
			order = append(order, in.Msg)
			mu.Unlock()
			return echoResult(in), nil
		}, task.WithCodec(fx.codec))
	require.NoError(t, err)

	// Enqueue before any worker runs so the queue holds both items.
	lowID, err := fx.queue.Enqueue(ctx, "mark", echoContext{Msg: "low"})
	require.NoError(t, err)
	highID, err := fx.queue.Enqueue(ctx, "mark", echoContext{Msg: "high"}, queue.WithPriority(queue.PriorityHigh))
	require.NoError(t, err)

	fx.start(t)
	_, err = fx.results.Join(ctx, []uuid.UUID{lowID, highID}, 15*time.Second)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"high", "low"}, order)
}

type calcInput struct {
	V int `json:"v"`
}

type calcDoubled struct {
	V int `json:"v"`
}

type calcFormatted struct {
	S string `json:"s"`
}

func TestPipelineTask(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 1)

	p, err := pipeline.New("calc").
		Step(0, "double", func(_ context.Context, _ uuid.UUID, in calcInput) (calcDoubled, error) {
			return calcDoubled{V: in.V * 2}, nil
		}).
		Step(1, "format", func(_ context.Context, _ uuid.UUID, in calcDoubled) (calcFormatted, error) {
			return calcFormatted{S: fmt.Sprintf("=%d", in.V)}, nil
		}).
		Build()
	require.NoError(t, err)
	_, err = p.Bind(fx.registry, fx.store, task.WithCodec(fx.codec))
	require.NoError(t, err)
	fx.start(t)

	agentID, err := fx.queue.Enqueue(ctx, "calc", calcInput{V: 5})
	require.NoError(t, err)

	got, err := results.Wait[calcFormatted](ctx, fx.results, fx.codec, agentID, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "=10", got.S)

	detail := fx.awaitStatus(t, agentID, activity.StatusComplete)
	var stepLogs []activity.LogEntry
	for _, l := range detail.Logs {
		if l.Status == activity.StatusRunning && l.Message != fx.cfg.ActivityMessageStarted {
			stepLogs = append(stepLogs, l)
		}
	}
	require.Len(t, stepLogs, 2)
	assert.Equal(t, "Started double", stepLogs[0].Message)
	require.NotNil(t, stepLogs[0].Percentage)
	assert.Equal(t, 0, *stepLogs[0].Percentage)
	assert.Equal(t, "Started format", stepLogs[1].Message)
	require.NotNil(t, stepLogs[1].Percentage)
	assert.Equal(t, 50, *stepLogs[1].Percentage)
}

type fanoutInput struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type fanoutPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

type fanoutJoined struct {
	S string `json:"s"`
}

func TestPipelineFanOutJoin(t *testing.T) {
	ctx := context.Background()
	// The pipeline occupies one worker while its children need their own.
	fx := newFixture(t, 3)

	_, err := task.Register(fx.registry, "shout",
		func(_ context.Context, _ uuid.UUID, in echoContext) (echoResult, error) {
			return echoResult{Msg: in.Msg + "!"}, nil
		}, task.WithCodec(fx.codec))
	require.NoError(t, err)

	p, err := pipeline.New("fanout").
		Step(0, "scatter", func(ctx context.Context, _ uuid.UUID, in fanoutInput) (fanoutPair, error) {
			leftID, err := fx.queue.Enqueue(ctx, "shout", echoContext{Msg: in.Left})
			if err != nil {
				return fanoutPair{}, err
			}
			rightID, err := fx.queue.Enqueue(ctx, "shout", echoContext{Msg: in.Right})
			if err != nil {
				return fanoutPair{}, err
			}
			payloads, err := fx.results.Join(ctx, []uuid.UUID{leftID, rightID}, 15*time.Second)
			if err != nil {
				return fanoutPair{}, err
			}
			var left, right echoResult
			if err := fx.codec.DecodeInto(payloads[0], &left); err != nil {
				return fanoutPair{}, err
			}
			if err := fx.codec.DecodeInto(payloads[1], &right); err != nil {
				return fanoutPair{}, err
			}
			return fanoutPair{A: left.Msg, B: right.Msg}, nil
		}).
		Step(1, "gather", func(_ context.Context, _ uuid.UUID, in fanoutPair) (fanoutJoined, error) {
			return fanoutJoined{S: in.A + " " + in.B}, nil
		}).
		Build()
	require.NoError(t, err)
	_, err = p.Bind(fx.registry, fx.store, task.WithCodec(fx.codec))
	require.NoError(t, err)
	fx.start(t)

	agentID, err := fx.queue.Enqueue(ctx, "fanout", fanoutInput{Left: "hello", Right: "world"})
	require.NoError(t, err)

	got, err := results.Wait[fanoutJoined](ctx, fx.results, fx.codec, agentID, 20*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "hello! world!", got.S, "join preserves enqueue order")

	fx.awaitStatus(t, agentID, activity.StatusComplete)
	page, err := fx.store.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total, "pipeline plus two children")
	for _, item := range page.Items {
		assert.Equal(t, activity.StatusComplete, item.Status)
	}
}

func TestGracefulShutdownCancelsPending(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, 1)
	fx.cfg.GracefulShutdownTimeout = 0

	release := make(chan struct{})
	_, err := task.Register(fx.registry, "slow",
		func(_ context.Context, _ uuid.UUID, in echoContext) (echoResult, error) {
			<-release
			return echoResult(in), nil
		}, task.WithCodec(fx.codec))
	require.NoError(t, err)

	require.NoError(t, fx.pool.Start(ctx))

	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := fx.queue.Enqueue(ctx, "slow", echoContext{Msg: fmt.Sprintf("t%d", i)})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- fx.pool.Shutdown(context.Background()) }()
	// Let shutdown escalate past the zero grace period, then unblock the
	// handler so the worker can exit.
	time.Sleep(300 * time.Millisecond)
	close(release)
	require.NoError(t, <-shutdownDone)

	canceled := 0
	for _, id := range ids {
		detail, err := fx.store.Detail(ctx, id, nil)
		require.NoError(t, err)
		if detail.Status == activity.StatusCanceled {
			canceled++
		} else {
			assert.Equal(t, activity.StatusComplete, detail.Status,
				"after shutdown every activity is complete or canceled")
		}
	}
	assert.GreaterOrEqual(t, canceled, 1)

	n, err := fx.store.CancelPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "the shutdown sweep left nothing active")
}
