package state

import (
	"strings"

	"github.com/google/uuid"
)

// Keys formats the well-known backend keys and channels under a common
// prefix so several deployments can share one broker.
type Keys struct {
	prefix string
}

// NewKeys returns a Keys formatter for the given prefix.
func NewKeys(prefix string) Keys {
	return Keys{prefix: prefix}
}

// Result returns the rendezvous key for an agent's result value.
func (k Keys) Result(agentID uuid.UUID) string {
	return k.join("result", agentID.String())
}

// Shutdown returns the shutdown-flag key for a worker pool.
func (k Keys) Shutdown(poolID string) string {
	return k.join("shutdown", poolID)
}

// LogChannel returns the pub/sub channel workers publish log records to.
func (k Keys) LogChannel() string {
	return k.join("logs")
}

func (k Keys) join(parts ...string) string {
	return k.prefix + ":" + strings.Join(parts, ":")
}
