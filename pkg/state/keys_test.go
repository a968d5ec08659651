package state

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	k := NewKeys("agentexec")
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	assert.Equal(t, "agentexec:result:11111111-2222-3333-4444-555555555555", k.Result(id))
	assert.Equal(t, "agentexec:shutdown:pool-1", k.Shutdown("pool-1"))
	assert.Equal(t, "agentexec:logs", k.LogChannel())
}

func TestPGChannelName(t *testing.T) {
	assert.Equal(t, "agentexec_logs", pgChannelName("agentexec:logs"))
}
