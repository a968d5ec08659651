package activity

import (
	"time"

	"github.com/google/uuid"
)

// Status is an activity's lifecycle state. An activity has no stored
// status of its own: its current status is the status of its newest log
// entry.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
	StatusCanceled Status = "canceled"
)

// Active reports whether the status still occupies a queue slot or a
// worker.
func (s Status) Active() bool {
	return s == StatusQueued || s == StatusRunning
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError || s == StatusCanceled
}

// Summary is the list view of one activity: the header joined with its
// newest log entry. Metadata is deliberately absent; it is a filter key,
// not response payload.
type Summary struct {
	AgentID    uuid.UUID  `json:"agent_id"`
	AgentType  string     `json:"agent_type"`
	Status     Status     `json:"status"`
	Message    string     `json:"message"`
	Percentage *int       `json:"percentage,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LogEntry is one recorded status transition.
type LogEntry struct {
	Status     Status    `json:"status"`
	Message    string    `json:"message"`
	Percentage *int      `json:"percentage,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Detail is the full view of one activity: the summary plus its complete
// log history in chronological order.
type Detail struct {
	Summary
	Logs []LogEntry `json:"logs"`
}

// ListOptions narrows and pages a List call. Metadata keys combine as a
// conjunction: every given key/value pair must be present in the
// activity's metadata.
type ListOptions struct {
	Limit    int
	Offset   int
	Metadata map[string]interface{}
}

// Page is one page of activity summaries plus the unpaged total.
type Page struct {
	Items  []Summary `json:"items"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}
