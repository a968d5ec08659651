// Package config provides runtime configuration for the task execution
// framework. Every option has a built-in default and can be overridden
// through an AGENTEXEC_* environment variable; values are read once at
// process start.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend kinds accepted by Config.StateBackend.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all framework settings.
type Config struct {
	// Debug enables debug-level logging.
	// Env: AGENTEXEC_DEBUG
	Debug bool

	// QueueName is the list the queue facade pushes envelopes onto and
	// workers pop from.
	// Env: AGENTEXEC_QUEUE_NAME
	QueueName string

	// KeyPrefix namespaces every state-backend key and channel
	// (results, shutdown flags, the log channel).
	// Env: AGENTEXEC_KEY_PREFIX
	KeyPrefix string

	// WorkerCount is the number of workers a pool spawns.
	// Env: AGENTEXEC_NUM_WORKERS
	WorkerCount int

	// DequeueTimeout bounds each blocking pop so workers can observe the
	// shutdown flag between attempts.
	// Env: AGENTEXEC_DEQUEUE_TIMEOUT (seconds)
	DequeueTimeout time.Duration

	// GracefulShutdownTimeout is the maximum time Shutdown waits for
	// workers to finish their current task.
	// Env: AGENTEXEC_GRACEFUL_SHUTDOWN_TIMEOUT (seconds)
	GracefulShutdownTimeout time.Duration

	// ResultTTL is how long task results stay readable in the state
	// backend. Waiters using a timeout longer than the TTL can observe a
	// false timeout after a successful run; Validate warns about that.
	// Env: AGENTEXEC_RESULT_TTL (seconds)
	ResultTTL time.Duration

	// ResultPollInterval is the poll cadence of WaitResult.
	// Env: AGENTEXEC_RESULT_POLL_INTERVAL (milliseconds)
	ResultPollInterval time.Duration

	// ActivityMessageCreate is the first log line of every new activity.
	// Env: AGENTEXEC_ACTIVITY_MESSAGE_CREATE
	ActivityMessageCreate string

	// ActivityMessageStarted is logged when a worker begins executing.
	// Env: AGENTEXEC_ACTIVITY_MESSAGE_STARTED
	ActivityMessageStarted string

	// ActivityMessageComplete is the terminal log line on success.
	// Env: AGENTEXEC_ACTIVITY_MESSAGE_COMPLETE
	ActivityMessageComplete string

	// ActivityMessageError is the terminal log line on handler failure.
	// The placeholder {error} is replaced with the handler error text.
	// Env: AGENTEXEC_ACTIVITY_MESSAGE_ERROR
	ActivityMessageError string

	// ActivityRetentionDays is how long finished activities are kept
	// before the cleanup service deletes them. Zero disables retention.
	// Env: AGENTEXEC_ACTIVITY_RETENTION_DAYS
	ActivityRetentionDays int

	// CleanupInterval is the cadence of the background cleanup loop.
	// Env: AGENTEXEC_CLEANUP_INTERVAL (seconds)
	CleanupInterval time.Duration

	// StateBackend selects the broker implementation: "memory", "redis"
	// or "postgres".
	// Env: AGENTEXEC_STATE_BACKEND
	StateBackend string

	// RedisURL is the connection URL for the redis backend.
	// Env: AGENTEXEC_REDIS_URL (falls back to REDIS_URL)
	RedisURL string

	// RedisPoolSize is the redis connection pool size.
	// Env: AGENTEXEC_REDIS_POOL_SIZE
	RedisPoolSize int

	// RedisPoolTimeout is how long a caller waits for a pooled redis
	// connection before failing.
	// Env: AGENTEXEC_REDIS_POOL_TIMEOUT (seconds)
	RedisPoolTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debug:                   false,
		QueueName:               "agentexec_tasks",
		KeyPrefix:               "agentexec",
		WorkerCount:             4,
		DequeueTimeout:          1 * time.Second,
		GracefulShutdownTimeout: 300 * time.Second,
		ResultTTL:               1 * time.Hour,
		ResultPollInterval:      500 * time.Millisecond,
		ActivityMessageCreate:   "Waiting to start.",
		ActivityMessageStarted:  "Started processing.",
		ActivityMessageComplete: "Completed successfully.",
		ActivityMessageError:    "An error occurred during execution. {error}",
		ActivityRetentionDays:   30,
		CleanupInterval:         1 * time.Hour,
		StateBackend:            BackendRedis,
		RedisURL:                "redis://localhost:6379/0",
		RedisPoolSize:           10,
		RedisPoolTimeout:        5 * time.Second,
	}
}

// Load builds a Config from defaults plus environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	cfg.Debug = getEnvBool("AGENTEXEC_DEBUG", cfg.Debug)
	cfg.QueueName = getEnv("AGENTEXEC_QUEUE_NAME", cfg.QueueName)
	cfg.KeyPrefix = getEnv("AGENTEXEC_KEY_PREFIX", cfg.KeyPrefix)

	var err error
	if cfg.WorkerCount, err = getEnvInt("AGENTEXEC_NUM_WORKERS", cfg.WorkerCount); err != nil {
		return nil, err
	}
	if cfg.DequeueTimeout, err = getEnvSeconds("AGENTEXEC_DEQUEUE_TIMEOUT", cfg.DequeueTimeout); err != nil {
		return nil, err
	}
	if cfg.GracefulShutdownTimeout, err = getEnvSeconds("AGENTEXEC_GRACEFUL_SHUTDOWN_TIMEOUT", cfg.GracefulShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.ResultTTL, err = getEnvSeconds("AGENTEXEC_RESULT_TTL", cfg.ResultTTL); err != nil {
		return nil, err
	}
	if cfg.ResultPollInterval, err = getEnvMillis("AGENTEXEC_RESULT_POLL_INTERVAL", cfg.ResultPollInterval); err != nil {
		return nil, err
	}

	cfg.ActivityMessageCreate = getEnv("AGENTEXEC_ACTIVITY_MESSAGE_CREATE", cfg.ActivityMessageCreate)
	cfg.ActivityMessageStarted = getEnv("AGENTEXEC_ACTIVITY_MESSAGE_STARTED", cfg.ActivityMessageStarted)
	cfg.ActivityMessageComplete = getEnv("AGENTEXEC_ACTIVITY_MESSAGE_COMPLETE", cfg.ActivityMessageComplete)
	cfg.ActivityMessageError = getEnv("AGENTEXEC_ACTIVITY_MESSAGE_ERROR", cfg.ActivityMessageError)

	if cfg.ActivityRetentionDays, err = getEnvInt("AGENTEXEC_ACTIVITY_RETENTION_DAYS", cfg.ActivityRetentionDays); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = getEnvSeconds("AGENTEXEC_CLEANUP_INTERVAL", cfg.CleanupInterval); err != nil {
		return nil, err
	}

	cfg.StateBackend = getEnv("AGENTEXEC_STATE_BACKEND", cfg.StateBackend)
	cfg.RedisURL = getEnv("AGENTEXEC_REDIS_URL", getEnv("REDIS_URL", cfg.RedisURL))
	if cfg.RedisPoolSize, err = getEnvInt("AGENTEXEC_REDIS_POOL_SIZE", cfg.RedisPoolSize); err != nil {
		return nil, err
	}
	if cfg.RedisPoolTimeout, err = getEnvSeconds("AGENTEXEC_REDIS_POOL_TIMEOUT", cfg.RedisPoolTimeout); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithDotenv loads the .env file at envPath (missing file is not an
// error) and then builds the Config from the environment.
func LoadWithDotenv(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	}
	return Load()
}

// Validate checks value ranges and logs a warning for the TTL/poll pitfall.
func (c *Config) Validate() error {
	if c.QueueName == "" {
		return fmt.Errorf("queue name must not be empty")
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", c.WorkerCount)
	}
	switch c.StateBackend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unsupported state backend %q", c.StateBackend)
	}
	if c.ResultPollInterval <= 0 {
		return fmt.Errorf("result poll interval must be positive, got %v", c.ResultPollInterval)
	}
	if c.ResultTTL > 0 && c.ResultTTL < c.ResultPollInterval {
		slog.Warn("Result TTL is shorter than the poll interval; waiters may miss results that already expired",
			"result_ttl", c.ResultTTL,
			"poll_interval", c.ResultPollInterval)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvSeconds(key string, defaultVal time.Duration) (time.Duration, error) {
	val, err := getEnvInt(key, int(defaultVal/time.Second))
	if err != nil {
		return 0, err
	}
	return time.Duration(val) * time.Second, nil
}

func getEnvMillis(key string, defaultVal time.Duration) (time.Duration, error) {
	val, err := getEnvInt(key, int(defaultVal/time.Millisecond))
	if err != nil {
		return 0, err
	}
	return time.Duration(val) * time.Millisecond, nil
}
