package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/task"
)

type rawInput struct {
	Text string `json:"text"`
}

type wordList struct {
	Words []string `json:"words"`
}

type wordCount struct {
	Count int `json:"count"`
}

func splitStep(_ context.Context, _ uuid.UUID, in rawInput) (wordList, error) {
	return wordList{Words: strings.Fields(in.Text)}, nil
}

func countStep(_ context.Context, _ uuid.UUID, in wordList) (wordCount, error) {
	return wordCount{Count: len(in.Words)}, nil
}

type progressEntry struct {
	message    string
	percentage int
}

type fakeProgress struct {
	mu      sync.Mutex
	entries []progressEntry
	fail    error
}

func (f *fakeProgress) Append(_ context.Context, _ uuid.UUID, status activity.Status, message string, percentage *int) error {
	if f.fail != nil {
		return f.fail
	}
	if status != activity.StatusRunning {
		return fmt.Errorf("unexpected status %s", status)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pct := -1
	if percentage != nil {
		pct = *percentage
	}
	f.entries = append(f.entries, progressEntry{message: message, percentage: pct})
	return nil
}

func buildWordPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New("word-count").
		Step(1, "Split text", splitStep).
		Step(2, "Count words", countStep).
		Build()
	require.NoError(t, err)
	return p
}

func TestPipeline_Run(t *testing.T) {
	p := buildWordPipeline(t)
	rec := &fakeProgress{}

	out, err := p.Run(context.Background(), uuid.New(), rawInput{Text: "one two three"}, rec)
	require.NoError(t, err)
	assert.Equal(t, wordCount{Count: 3}, out)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, progressEntry{message: "Started Split text", percentage: 0}, rec.entries[0])
	assert.Equal(t, progressEntry{message: "Started Count words", percentage: 50}, rec.entries[1])
}

func TestPipeline_RunAcceptsPointerInput(t *testing.T) {
	p := buildWordPipeline(t)

	out, err := p.Run(context.Background(), uuid.New(), &rawInput{Text: "a b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, wordCount{Count: 2}, out)
}

func TestPipeline_RunWrongInputType(t *testing.T) {
	p := buildWordPipeline(t)

	_, err := p.Run(context.Background(), uuid.New(), wordList{}, nil)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestPipeline_StepErrorAborts(t *testing.T) {
	p, err := New("failing").
		Step(1, "Split text", splitStep).
		Step(2, "Explode", func(_ context.Context, _ uuid.UUID, _ wordList) (wordCount, error) {
			return wordCount{}, fmt.Errorf("step blew up")
		}).
		Step(3, "Never reached", func(_ context.Context, _ uuid.UUID, _ wordCount) (wordCount, error) {
			t.Fatal("step after a failure must not run")
			return wordCount{}, nil
		}).
		Build()
	require.NoError(t, err)

	_, err = p.Run(context.Background(), uuid.New(), rawInput{Text: "x"}, nil)
	assert.ErrorContains(t, err, `step "Explode"`)
	assert.ErrorContains(t, err, "step blew up")
}

func TestPipeline_OrderKeysSortSteps(t *testing.T) {
	var order []string
	note := func(name string) {
		order = append(order, name)
	}
	p, err := New("ordered").
		Step(2, "second", func(_ context.Context, _ uuid.UUID, in wordList) (wordCount, error) {
			note("second")
			return wordCount{Count: len(in.Words)}, nil
		}).
		Step(1, "first", func(_ context.Context, _ uuid.UUID, in rawInput) (wordList, error) {
			note("first")
			return wordList{Words: strings.Fields(in.Text)}, nil
		}).
		Step(1.5, "between", func(_ context.Context, _ uuid.UUID, in wordList) (wordList, error) {
			note("between")
			return in, nil
		}).
		Build()
	require.NoError(t, err)

	_, err = p.Run(context.Background(), uuid.New(), rawInput{Text: "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "between", "second"}, order)
}

func TestBuilder_TypeMismatch(t *testing.T) {
	_, err := New("broken").
		Step(1, "Split text", splitStep).
		Step(2, "Wrong input", func(_ context.Context, _ uuid.UUID, _ wordCount) (wordCount, error) {
			return wordCount{}, nil
		}).
		Build()
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBuilder_InvalidSteps(t *testing.T) {
	_, err := New("no-steps").Build()
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = New("not-a-func").Step(1, "bad", 42).Build()
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = New("bad-shape").Step(1, "bad", func(in rawInput) (wordList, error) {
		return wordList{}, nil
	}).Build()
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = New("dup-order").
		Step(1, "a", splitStep).
		Step(1, "b", countStep).
		Build()
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = New("").Step(1, "a", splitStep).Build()
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestPipeline_BindRegistersTask(t *testing.T) {
	p := buildWordPipeline(t)
	registry := task.NewRegistry()
	rec := &fakeProgress{}

	def, err := p.Bind(registry, rec, task.WithCodec(task.NewCodec()))
	require.NoError(t, err)

	got, err := registry.Get("word-count")
	require.NoError(t, err)
	assert.Same(t, def, got)

	payload, err := def.EncodeContext(rawInput{Text: "alpha beta"})
	require.NoError(t, err)

	out, err := def.Execute(context.Background(), uuid.New(), payload)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"count":2`)
	assert.Len(t, rec.entries, 2)
}

func TestPipeline_ProgressFailureDoesNotAbort(t *testing.T) {
	p := buildWordPipeline(t)
	rec := &fakeProgress{fail: fmt.Errorf("store offline")}

	out, err := p.Run(context.Background(), uuid.New(), rawInput{Text: "a b c"}, rec)
	require.NoError(t, err)
	assert.Equal(t, wordCount{Count: 3}, out)
}
