package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "agentexec_tasks", cfg.QueueName)
	assert.Equal(t, "agentexec", cfg.KeyPrefix)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, time.Second, cfg.DequeueTimeout)
	assert.Equal(t, 300*time.Second, cfg.GracefulShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.ResultTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.ResultPollInterval)
	assert.Equal(t, BackendRedis, cfg.StateBackend)
	assert.Equal(t, "An error occurred during execution. {error}", cfg.ActivityMessageError)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGENTEXEC_QUEUE_NAME", "billing_tasks")
	t.Setenv("AGENTEXEC_NUM_WORKERS", "8")
	t.Setenv("AGENTEXEC_RESULT_TTL", "60")
	t.Setenv("AGENTEXEC_RESULT_POLL_INTERVAL", "100")
	t.Setenv("AGENTEXEC_STATE_BACKEND", "memory")
	t.Setenv("AGENTEXEC_ACTIVITY_MESSAGE_COMPLETE", "All done.")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "billing_tasks", cfg.QueueName)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, time.Minute, cfg.ResultTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.ResultPollInterval)
	assert.Equal(t, BackendMemory, cfg.StateBackend)
	assert.Equal(t, "All done.", cfg.ActivityMessageComplete)
}

func TestLoad_RedisURLFallback(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://fallback:6379/1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis://fallback:6379/1", cfg.RedisURL)

	t.Setenv("AGENTEXEC_REDIS_URL", "redis://primary:6379/0")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "redis://primary:6379/0", cfg.RedisURL, "AGENTEXEC_REDIS_URL wins over REDIS_URL")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("AGENTEXEC_NUM_WORKERS", "many")
	_, err := Load()
	assert.ErrorContains(t, err, "AGENTEXEC_NUM_WORKERS")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.QueueName = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.WorkerCount = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.StateBackend = "etcd"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ResultPollInterval = 0
	assert.Error(t, cfg.Validate())
}
