// Package pipeline composes registered step functions into one task. A
// pipeline runs its steps in ascending order, threading each step's
// result into the next step's input and logging a progress entry per
// step, and registers as a single task whose context is the first step's
// input and whose result is the last step's output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/google/uuid"

	"github.com/agentexec/agentexec/pkg/activity"
	"github.com/agentexec/agentexec/pkg/task"
)

// Sentinel errors for pipeline assembly.
var (
	// ErrInvalidStep indicates a step function with the wrong shape.
	ErrInvalidStep = errors.New("invalid pipeline step")

	// ErrTypeMismatch indicates adjacent steps whose result and context
	// types do not line up.
	ErrTypeMismatch = errors.New("pipeline step types do not align")
)

var (
	ctxType  = reflect.TypeOf((*context.Context)(nil)).Elem()
	uuidType = reflect.TypeOf(uuid.UUID{})
	errType  = reflect.TypeOf((*error)(nil)).Elem()
)

type step struct {
	order       float64
	description string
	fn          reflect.Value
	in          reflect.Type
	out         reflect.Type
}

// Builder accumulates steps. Order keys are floats so a step can later
// be inserted between two existing ones without renumbering.
type Builder struct {
	name  string
	steps []step
	err   error
}

// New starts a builder for a pipeline registered under name.
func New(name string) *Builder {
	b := &Builder{name: name}
	if name == "" {
		b.err = fmt.Errorf("%w: empty pipeline name", ErrInvalidStep)
	}
	return b
}

// Step adds a step function. It must have the shape
//
//	func(ctx context.Context, agentID uuid.UUID, in In) (Out, error)
//
// with In and Out named structs. The first violation sticks and is
// reported by Build.
func (b *Builder) Step(order float64, description string, fn any) *Builder {
	if b.err != nil {
		return b
	}
	v := reflect.ValueOf(fn)
	in, out, err := stepTypes(v)
	if err != nil {
		b.err = fmt.Errorf("step %q: %w", description, err)
		return b
	}
	b.steps = append(b.steps, step{
		order:       order,
		description: description,
		fn:          v,
		in:          in,
		out:         out,
	})
	return b
}

func stepTypes(v reflect.Value) (reflect.Type, reflect.Type, error) {
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, nil, fmt.Errorf("%w: not a function", ErrInvalidStep)
	}
	t := v.Type()
	if t.NumIn() != 3 || t.NumOut() != 2 {
		return nil, nil, fmt.Errorf("%w: want func(context.Context, uuid.UUID, In) (Out, error)", ErrInvalidStep)
	}
	if t.In(0) != ctxType || t.In(1) != uuidType {
		return nil, nil, fmt.Errorf("%w: first parameters must be context.Context and uuid.UUID", ErrInvalidStep)
	}
	if t.Out(1) != errType {
		return nil, nil, fmt.Errorf("%w: second return value must be error", ErrInvalidStep)
	}
	in, out := t.In(2), t.Out(0)
	if in.Kind() != reflect.Struct || in.Name() == "" {
		return nil, nil, fmt.Errorf("%w: input %s must be a named struct", ErrInvalidStep, in)
	}
	if out.Kind() != reflect.Struct || out.Name() == "" {
		return nil, nil, fmt.Errorf("%w: output %s must be a named struct", ErrInvalidStep, out)
	}
	return in, out, nil
}

// Build validates the assembled pipeline: at least one step, unique
// order keys, and each step's output type feeding the next step's input.
func (b *Builder) Build() (*Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.steps) == 0 {
		return nil, fmt.Errorf("%w: pipeline %q has no steps", ErrInvalidStep, b.name)
	}

	steps := make([]step, len(b.steps))
	copy(steps, b.steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].order < steps[j].order })

	for i := 1; i < len(steps); i++ {
		if steps[i].order == steps[i-1].order {
			return nil, fmt.Errorf("%w: pipeline %q has two steps at order %v", ErrInvalidStep, b.name, steps[i].order)
		}
		if steps[i].in != steps[i-1].out {
			return nil, fmt.Errorf("%w: pipeline %q step %q returns %s but step %q expects %s",
				ErrTypeMismatch, b.name, steps[i-1].description, steps[i-1].out, steps[i].description, steps[i].in)
		}
	}

	return &Pipeline{
		name:        b.name,
		steps:       steps,
		contextType: steps[0].in,
		resultType:  steps[len(steps)-1].out,
	}, nil
}

// ProgressRecorder receives one running transition per step. The
// activity store satisfies it.
type ProgressRecorder interface {
	Append(ctx context.Context, agentID uuid.UUID, status activity.Status, message string, percentage *int) error
}

// Pipeline is a validated, immutable step chain.
type Pipeline struct {
	name        string
	steps       []step
	contextType reflect.Type
	resultType  reflect.Type
}

// Name returns the pipeline's task name.
func (p *Pipeline) Name() string { return p.name }

// NumSteps returns the number of steps.
func (p *Pipeline) NumSteps() int { return len(p.steps) }

// ContextType returns the first step's input type.
func (p *Pipeline) ContextType() reflect.Type { return p.contextType }

// ResultType returns the last step's output type.
func (p *Pipeline) ResultType() reflect.Type { return p.resultType }

// Bind registers the pipeline as a task. Workers then execute the whole
// chain for one queue envelope, with per-step progress on the activity.
func (p *Pipeline) Bind(registry *task.Registry, rec ProgressRecorder, opts ...task.Option) (*task.Definition, error) {
	def, err := task.NewDynamic(p.name, p.contextType, p.resultType,
		func(ctx context.Context, agentID uuid.UUID, in any) (any, error) {
			return p.Run(ctx, agentID, in, rec)
		}, opts...)
	if err != nil {
		return nil, err
	}
	if err := registry.Add(def); err != nil {
		return nil, err
	}
	return def, nil
}

// Run executes the chain directly. The input may be the context struct
// or a pointer to it; the returned value has the pipeline's result type.
// Progress recording is best effort: a failing recorder does not abort
// the run.
func (p *Pipeline) Run(ctx context.Context, agentID uuid.UUID, in any, rec ProgressRecorder) (any, error) {
	cur := reflect.ValueOf(in)
	if cur.Kind() == reflect.Pointer {
		cur = cur.Elem()
	}
	if cur.Type() != p.contextType {
		return nil, fmt.Errorf("%w: pipeline %q wants context %s, got %T", ErrTypeMismatch, p.name, p.contextType, in)
	}

	total := len(p.steps)
	for i, st := range p.steps {
		if rec != nil {
			pct := i * 100 / total
			message := "Started " + st.description
			if err := rec.Append(ctx, agentID, activity.StatusRunning, message, &pct); err != nil {
				slog.Warn("Failed to record pipeline progress",
					"pipeline", p.name,
					"step", st.description,
					"agent_id", agentID,
					"error", err)
			}
		}

		results := st.fn.Call([]reflect.Value{
			reflect.ValueOf(ctx),
			reflect.ValueOf(agentID),
			cur,
		})
		if errVal := results[1]; !errVal.IsNil() {
			return nil, fmt.Errorf("pipeline %q step %q: %w", p.name, st.description, errVal.Interface().(error))
		}
		cur = results[0]
	}
	return cur.Interface(), nil
}
