package cleanup

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentexec/agentexec/pkg/config"
)

type fakePurger struct {
	calls atomic.Int32
	count int
	err   error
}

func (f *fakePurger) DeleteOldTerminal(context.Context, int) (int, error) {
	f.calls.Add(1)
	return f.count, f.err
}

func (f *fakePurger) PurgeExpired(context.Context) (int, error) {
	f.calls.Add(1)
	return f.count, f.err
}

func TestService_RunOnce(t *testing.T) {
	cfg := config.Default()
	activities := &fakePurger{count: 3}
	kv := &fakePurger{count: 1}

	NewService(cfg, activities, kv).RunOnce(context.Background())

	assert.EqualValues(t, 1, activities.calls.Load())
	assert.EqualValues(t, 1, kv.calls.Load())
}

func TestService_RunOnceWithoutKV(t *testing.T) {
	cfg := config.Default()
	activities := &fakePurger{}

	NewService(cfg, activities, nil).RunOnce(context.Background())

	assert.EqualValues(t, 1, activities.calls.Load())
}

func TestService_RetentionDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.ActivityRetentionDays = 0
	activities := &fakePurger{}

	NewService(cfg, activities, nil).RunOnce(context.Background())

	assert.EqualValues(t, 0, activities.calls.Load(), "disabled retention must not touch the store")
}

func TestService_ErrorsDoNotPanic(t *testing.T) {
	cfg := config.Default()
	activities := &fakePurger{err: fmt.Errorf("db offline")}
	kv := &fakePurger{err: fmt.Errorf("db offline")}

	NewService(cfg, activities, kv).RunOnce(context.Background())
	assert.EqualValues(t, 1, activities.calls.Load())
}

func TestService_StartStop(t *testing.T) {
	cfg := config.Default()
	cfg.CleanupInterval = 10 * time.Millisecond
	activities := &fakePurger{}

	svc := NewService(cfg, activities, nil)
	svc.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	svc.Stop()

	// One immediate pass plus several ticks.
	assert.GreaterOrEqual(t, activities.calls.Load(), int32(2))

	// Stop is safe to call again.
	svc.Stop()
}
