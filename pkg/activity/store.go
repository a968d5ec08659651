// Package activity persists per-agent progress tracking. Each background
// run gets one activity header and an append-only trail of status log
// entries; the newest entry defines the activity's current status.
package activity

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/agentexec/agentexec/ent"
	entactivity "github.com/agentexec/agentexec/ent/activity"
	"github.com/agentexec/agentexec/ent/activitylog"
	"github.com/agentexec/agentexec/pkg/config"
	"github.com/agentexec/agentexec/pkg/database"
)

// Sentinel errors for activity operations.
var (
	// ErrDuplicateAgent indicates an activity already exists for the
	// given agent id.
	ErrDuplicateAgent = errors.New("activity already exists for agent")

	// ErrUnknownAgent indicates no activity matches the given agent id
	// (or the metadata filter excluded it).
	ErrUnknownAgent = errors.New("no activity for agent")
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// CanceledMessage is logged when pending work is canceled at shutdown.
const CanceledMessage = "Canceled due to shutdown"

// Store reads and writes activities. All methods are safe for concurrent
// use; writers in other processes are coordinated through the database.
type Store struct {
	db  *database.Client
	cfg *config.Config
}

// NewStore returns a store over the given database client.
func NewStore(db *database.Client, cfg *config.Config) *Store {
	return &Store{db: db, cfg: cfg}
}

// CreateOption customizes a Create call.
type CreateOption func(*createParams)

type createParams struct {
	agentID  uuid.UUID
	metadata map[string]interface{}
}

// WithAgentID pins the new activity to a caller-chosen agent id instead
// of a minted one.
func WithAgentID(id uuid.UUID) CreateOption {
	return func(p *createParams) { p.agentID = id }
}

// WithMetadata attaches opaque caller data used for filtered listing.
func WithMetadata(md map[string]interface{}) CreateOption {
	return func(p *createParams) { p.metadata = md }
}

// ApplyCreateOptions resolves create options into their raw values.
// Exposed so fakes of the store can honor the same options.
func ApplyCreateOptions(opts []CreateOption) (uuid.UUID, map[string]interface{}) {
	var p createParams
	for _, opt := range opts {
		opt(&p)
	}
	return p.agentID, p.metadata
}

// Create opens a new activity for agentType and writes its initial queued
// log entry in the same transaction, so no observer ever sees an activity
// without a status. Returns the agent id identifying the run.
func (s *Store) Create(ctx context.Context, agentType string, opts ...CreateOption) (uuid.UUID, error) {
	p := createParams{agentID: uuid.New()}
	for _, opt := range opts {
		opt(&p)
	}

	tx, err := s.db.Tx(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	create := tx.Activity.Create().
		SetAgentID(p.agentID).
		SetAgentType(agentType)
	if p.metadata != nil {
		create.SetMetadata(p.metadata)
	}
	act, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrDuplicateAgent, p.agentID)
		}
		return uuid.Nil, fmt.Errorf("failed to create activity: %w", err)
	}

	err = tx.ActivityLog.Create().
		SetActivityID(act.ID).
		SetStatus(activitylog.StatusQueued).
		SetMessage(s.cfg.ActivityMessageCreate).
		SetPercentage(0).
		Exec(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create initial log entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit activity: %w", err)
	}
	return p.agentID, nil
}

// Append records a status transition for the agent's activity and bumps
// the header's updated_at.
func (s *Store) Append(ctx context.Context, agentID uuid.UUID, status Status, message string, percentage *int) error {
	act, err := s.db.Activity.Query().
		Where(entactivity.AgentIDEQ(agentID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
		}
		return fmt.Errorf("failed to look up activity: %w", err)
	}

	tx, err := s.db.Tx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	create := tx.ActivityLog.Create().
		SetActivityID(act.ID).
		SetStatus(activitylog.Status(status)).
		SetMessage(message)
	if percentage != nil {
		create.SetPercentage(*percentage)
	}
	if err := create.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	err = tx.Activity.UpdateOneID(act.ID).
		SetUpdatedAt(time.Now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to touch activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit log entry: %w", err)
	}
	return nil
}

// latestLogJoin is the lateral join picking each activity's newest log
// row. The query-builder API cannot express lateral joins, hence raw SQL
// for the list-side reads.
const latestLogJoin = `
JOIN LATERAL (
	SELECT status, message, percentage, created_at
	FROM agentexec_activity_log
	WHERE activity_id = a.id
	ORDER BY created_at DESC, id DESC
	LIMIT 1
) AS l ON true`

// List returns a page of activity summaries. Activities whose latest
// status is still active sort first; within each group newest activities
// come first.
func (s *Store) List(ctx context.Context, opts ListOptions) (*Page, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	filter, filterArgs := metadataPredicate(opts.Metadata, 3)

	// Sort: running first, then queued, then everything finished; inside
	// each group the most recently started activity leads.
	query := `
SELECT a.agent_id, a.agent_type, a.created_at, a.updated_at,
       l.status, l.message, l.percentage, s.started_at
FROM agentexec_activity AS a` + latestLogJoin + `
JOIN LATERAL (
	SELECT min(created_at) AS started_at
	FROM agentexec_activity_log
	WHERE activity_id = a.id
) AS s ON true
WHERE ` + filter + `
ORDER BY
	CASE l.status WHEN 'running' THEN 0 WHEN 'queued' THEN 1 ELSE 2 END,
	s.started_at DESC NULLS LAST
LIMIT $1 OFFSET $2`

	args := append([]interface{}{limit, offset}, filterArgs...)
	rows, err := s.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	items := make([]Summary, 0, limit)
	for rows.Next() {
		var (
			item       Summary
			status     string
			percentage stdsql.NullInt64
			startedAt  stdsql.NullTime
		)
		err := rows.Scan(&item.AgentID, &item.AgentType, &item.CreatedAt, &item.UpdatedAt,
			&status, &item.Message, &percentage, &startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		item.Status = Status(status)
		if percentage.Valid {
			p := int(percentage.Int64)
			item.Percentage = &p
		}
		if startedAt.Valid {
			ts := startedAt.Time
			item.StartedAt = &ts
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity rows: %w", err)
	}

	countFilter, countArgs := metadataPredicate(opts.Metadata, 1)
	var total int
	err = s.db.DB().QueryRowContext(ctx,
		`SELECT count(*) FROM agentexec_activity AS a WHERE `+countFilter,
		countArgs...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	return &Page{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Detail returns one activity with its full log history. A metadata
// filter that does not match behaves exactly like a missing activity, so
// scoped callers cannot probe for foreign agent ids.
func (s *Store) Detail(ctx context.Context, agentID uuid.UUID, metadata map[string]interface{}) (*Detail, error) {
	query := s.db.Activity.Query().
		Where(entactivity.AgentIDEQ(agentID))
	if len(metadata) > 0 {
		query = query.Where(func(sel *sql.Selector) {
			for _, key := range sortedKeys(metadata) {
				sel.Where(sql.ExprP(
					sel.C(entactivity.FieldMetadata)+"->>? = ?",
					key, fmt.Sprint(metadata[key])))
			}
		})
	}
	act, err := query.Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	logs, err := act.QueryLogs().
		Order(ent.Asc(activitylog.FieldCreatedAt), ent.Asc(activitylog.FieldID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity logs: %w", err)
	}
	if len(logs) == 0 {
		// Create writes the header and first log atomically, so this
		// indicates external tampering.
		return nil, fmt.Errorf("activity %s has no log entries", agentID)
	}

	latest := logs[len(logs)-1]
	startedAt := logs[0].CreatedAt
	d := &Detail{
		Summary: Summary{
			AgentID:    act.AgentID,
			AgentType:  act.AgentType,
			Status:     Status(latest.Status),
			Message:    latest.Message,
			Percentage: latest.Percentage,
			StartedAt:  &startedAt,
			CreatedAt:  act.CreatedAt,
			UpdatedAt:  act.UpdatedAt,
		},
		Logs: make([]LogEntry, 0, len(logs)),
	}
	for _, l := range logs {
		d.Logs = append(d.Logs, LogEntry{
			Status:     Status(l.Status),
			Message:    l.Message,
			Percentage: l.Percentage,
			CreatedAt:  l.CreatedAt,
		})
	}
	return d, nil
}

// CountActive returns the number of activities whose latest status is
// queued or running.
func (s *Store) CountActive(ctx context.Context) (int, error) {
	query := `
SELECT count(*)
FROM agentexec_activity AS a` + latestLogJoin + `
WHERE l.status IN ('queued', 'running')`

	var count int
	if err := s.db.DB().QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active activities: %w", err)
	}
	return count, nil
}

// CancelPending marks every still-active activity as canceled. Called
// after a pool shutdown so no activity stays queued or running forever.
// Returns the number of activities canceled.
func (s *Store) CancelPending(ctx context.Context) (int, error) {
	// A single statement keeps the log insert and the header touch on
	// one snapshot of the active set.
	query := `
WITH canceled AS (
	INSERT INTO agentexec_activity_log (activity_id, message, status, created_at)
	SELECT a.id, $1, 'canceled', now()
	FROM agentexec_activity AS a` + latestLogJoin + `
	WHERE l.status IN ('queued', 'running')
	RETURNING activity_id
)
UPDATE agentexec_activity SET updated_at = now()
WHERE id IN (SELECT activity_id FROM canceled)`

	res, err := s.db.DB().ExecContext(ctx, query, CanceledMessage)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending activities: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count canceled activities: %w", err)
	}
	return int(affected), nil
}

// DeleteOldTerminal deletes activities whose latest status is terminal
// and whose last update is older than the retention window. Log entries
// go with them via the cascade. Returns the number of activities removed.
func (s *Store) DeleteOldTerminal(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	query := `
DELETE FROM agentexec_activity
WHERE id IN (
	SELECT a.id
	FROM agentexec_activity AS a` + latestLogJoin + `
	WHERE l.status IN ('complete', 'error', 'canceled')
	  AND a.updated_at < now() - make_interval(days => $1)
)`
	res, err := s.db.DB().ExecContext(ctx, query, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old activities: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted activities: %w", err)
	}
	return int(affected), nil
}

// metadataPredicate renders the metadata filter as one text comparison
// per key, all of which must match. Values compare as their string
// forms, so a filter arriving as a query parameter matches a number
// stored at create time. A missing key or null metadata matches nothing.
func metadataPredicate(md map[string]interface{}, firstArg int) (string, []interface{}) {
	if len(md) == 0 {
		return "TRUE", nil
	}
	var sb strings.Builder
	args := make([]interface{}, 0, 2*len(md))
	for i, key := range sortedKeys(md) {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, "a.metadata->>$%d = $%d", firstArg, firstArg+1)
		firstArg += 2
		args = append(args, key, fmt.Sprint(md[key]))
	}
	return sb.String(), args
}

func sortedKeys(md map[string]interface{}) []string {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
