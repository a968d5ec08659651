package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/pkg/config"
	testdb "github.com/agentexec/agentexec/test/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	client := testdb.NewTestClient(t)
	return NewStore(client, config.Default())
}

func intPtr(v int) *int { return &v }

func TestStore_CreateAndDetail(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	agentID, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, agentID)

	detail, err := store.Detail(ctx, agentID, nil)
	require.NoError(t, err)
	assert.Equal(t, agentID, detail.AgentID)
	assert.Equal(t, "echo", detail.AgentType)
	assert.Equal(t, StatusQueued, detail.Status)
	assert.Equal(t, "Waiting to start.", detail.Message)
	require.Len(t, detail.Logs, 1)
	require.NotNil(t, detail.StartedAt)
}

func TestStore_CreateWithAgentID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	pinned := uuid.New()
	agentID, err := store.Create(ctx, "echo", WithAgentID(pinned))
	require.NoError(t, err)
	assert.Equal(t, pinned, agentID)
}

func TestStore_CreateDuplicateAgent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	pinned := uuid.New()
	_, err := store.Create(ctx, "echo", WithAgentID(pinned))
	require.NoError(t, err)

	_, err = store.Create(ctx, "echo", WithAgentID(pinned))
	assert.ErrorIs(t, err, ErrDuplicateAgent)
}

func TestStore_AppendDrivesStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	agentID, err := store.Create(ctx, "echo")
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, agentID, StatusRunning, "Started processing.", intPtr(0)))
	require.NoError(t, store.Append(ctx, agentID, StatusComplete, "Completed successfully.", intPtr(100)))

	detail, err := store.Detail(ctx, agentID, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, detail.Status, "status must be the newest log entry's status")
	require.Len(t, detail.Logs, 3)
	assert.Equal(t, StatusQueued, detail.Logs[0].Status)
	assert.Equal(t, StatusRunning, detail.Logs[1].Status)
	assert.Equal(t, StatusComplete, detail.Logs[2].Status)
	require.NotNil(t, detail.Percentage)
	assert.Equal(t, 100, *detail.Percentage)
}

func TestStore_LatestLogTiebreakIsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	agentID, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, agentID, StatusRunning, "Started processing.", intPtr(0)))
	require.NoError(t, store.Append(ctx, agentID, StatusComplete, "Completed successfully.", intPtr(100)))

	// Collapse every transition onto one timestamp; the serial id alone
	// must pick the newest row.
	ts := time.Now()
	_, err = store.db.DB().ExecContext(ctx, `
UPDATE agentexec_activity_log SET created_at = $1
WHERE activity_id = (SELECT id FROM agentexec_activity WHERE agent_id = $2)`, ts, agentID)
	require.NoError(t, err)

	detail, err := store.Detail(ctx, agentID, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, detail.Status)
	require.Len(t, detail.Logs, 3)
	assert.Equal(t, StatusQueued, detail.Logs[0].Status)
	assert.Equal(t, StatusComplete, detail.Logs[2].Status)

	page, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, StatusComplete, page.Items[0].Status)
}

func TestStore_AppendUnknownAgent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Append(ctx, uuid.New(), StatusRunning, "Started processing.", nil)
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestStore_DetailNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Detail(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestStore_DetailMetadataFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	agentID, err := store.Create(ctx, "echo", WithMetadata(map[string]interface{}{
		"tenant":  "acme",
		"env":     "prod",
		"attempt": 3,
	}))
	require.NoError(t, err)

	detail, err := store.Detail(ctx, agentID, map[string]interface{}{"tenant": "acme"})
	require.NoError(t, err)
	assert.Equal(t, agentID, detail.AgentID)

	// Values compare as strings: a filter arriving from a query parameter
	// matches the number stored at create time.
	detail, err = store.Detail(ctx, agentID, map[string]interface{}{"attempt": "3"})
	require.NoError(t, err)
	assert.Equal(t, agentID, detail.AgentID)

	// Wrong value and missing key both look exactly like a missing
	// activity, so a scoped caller cannot probe for foreign agent ids.
	_, err = store.Detail(ctx, agentID, map[string]interface{}{"tenant": "globex"})
	assert.ErrorIs(t, err, ErrUnknownAgent)
	_, err = store.Detail(ctx, agentID, map[string]interface{}{"region": "eu"})
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestStore_ListOrderingAndPaging(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	complete, err := store.Create(ctx, "done-task")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, complete, StatusRunning, "Started processing.", intPtr(0)))
	require.NoError(t, store.Append(ctx, complete, StatusComplete, "Completed successfully.", intPtr(100)))

	queued, err := store.Create(ctx, "queued-task")
	require.NoError(t, err)

	running, err := store.Create(ctx, "running-task")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, running, StatusRunning, "Started processing.", intPtr(0)))

	page, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 3)

	// Running leads, queued next, finished last.
	assert.Equal(t, running, page.Items[0].AgentID)
	assert.Equal(t, queued, page.Items[1].AgentID)
	assert.Equal(t, complete, page.Items[2].AgentID)
	require.NotNil(t, page.Items[0].StartedAt)

	small, err := store.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, small.Total, "total counts beyond the page")
	assert.Len(t, small.Items, 2)

	rest, err := store.List(ctx, ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest.Items, 1)
}

func TestStore_ListMetadataFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	acme, err := store.Create(ctx, "echo", WithMetadata(map[string]interface{}{"tenant": "acme", "shard": 7}))
	require.NoError(t, err)
	_, err = store.Create(ctx, "echo", WithMetadata(map[string]interface{}{"tenant": "globex"}))
	require.NoError(t, err)

	page, err := store.List(ctx, ListOptions{Metadata: map[string]interface{}{"tenant": "acme"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, acme, page.Items[0].AgentID)

	// String-form filters match numeric values, and the total honors the
	// same filter.
	page, err = store.List(ctx, ListOptions{Metadata: map[string]interface{}{"tenant": "acme", "shard": "7"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)

	page, err = store.List(ctx, ListOptions{Metadata: map[string]interface{}{"shard": "8"}})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Items)
}

func TestStore_CountActive(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	n, err := store.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	queued, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	running, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, running, StatusRunning, "Started processing.", intPtr(0)))

	n, err = store.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.Append(ctx, queued, StatusError, "An error occurred during execution. boom", nil))
	require.NoError(t, store.Append(ctx, running, StatusComplete, "Completed successfully.", intPtr(100)))

	n, err = store.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_CancelPendingIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	queued, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	running, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, running, StatusRunning, "Started processing.", intPtr(0)))

	complete, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, complete, StatusComplete, "Completed successfully.", intPtr(100)))

	n, err := store.CancelPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []uuid.UUID{queued, running} {
		detail, err := store.Detail(ctx, id, nil)
		require.NoError(t, err)
		assert.Equal(t, StatusCanceled, detail.Status)
		assert.Equal(t, CanceledMessage, detail.Message)
	}
	detail, err := store.Detail(ctx, complete, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, detail.Status, "finished activities stay untouched")

	n, err = store.CancelPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a second sweep finds nothing active")
}

func TestStore_DeleteOldTerminal(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	old, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, old, StatusComplete, "Completed successfully.", intPtr(100)))

	fresh, err := store.Create(ctx, "echo")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, fresh, StatusComplete, "Completed successfully.", intPtr(100)))

	active, err := store.Create(ctx, "echo")
	require.NoError(t, err)

	// Age the first activity past the retention window.
	oldTS := time.Now().AddDate(0, 0, -40)
	_, err = store.db.DB().ExecContext(ctx,
		"UPDATE agentexec_activity SET updated_at = $1 WHERE agent_id = $2", oldTS, old)
	require.NoError(t, err)

	n, err := store.DeleteOldTerminal(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Detail(ctx, old, nil)
	assert.ErrorIs(t, err, ErrUnknownAgent)
	_, err = store.Detail(ctx, fresh, nil)
	require.NoError(t, err)
	_, err = store.Detail(ctx, active, nil)
	require.NoError(t, err, "active activities survive regardless of age")
}
