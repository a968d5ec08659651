package task

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Handler is the signature every task handler must have. The context value
// is the deserialized payload the task was enqueued with; the returned
// result is serialized and published to the result rendezvous.
type Handler[C, R any] func(ctx context.Context, agentID uuid.UUID, in C) (R, error)

// Definition is a registered task: a name, the context and result types,
// and the type-erased handler the worker invokes.
type Definition struct {
	name        string
	contextType reflect.Type
	resultType  reflect.Type
	contextID   string
	codec       *Codec
	schema      *jsonschema.Schema
	schemaRaw   []byte
	invoke      func(ctx context.Context, agentID uuid.UUID, raw []byte) (any, error)
}

// Option customizes a Definition at construction time.
type Option func(*Definition) error

// WithCodec binds the definition to a codec other than DefaultCodec.
func WithCodec(c *Codec) Option {
	return func(d *Definition) error {
		d.codec = c
		return nil
	}
}

// WithContextSchema attaches a JSON Schema that incoming context payloads
// are validated against before they are decoded. Validation failures are
// serialization errors: the item is dropped, not retried.
func WithContextSchema(raw []byte) Option {
	return func(d *Definition) error {
		d.schemaRaw = raw
		return nil
	}
}

// New builds a task definition from a typed handler. The context and
// result types must be named structs; both are registered with the codec
// so payloads round-trip with their schema tags.
func New[C, R any](name string, fn Handler[C, R], opts ...Option) (*Definition, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty task name", ErrBadHandler)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil handler for task %q", ErrBadHandler, name)
	}

	d := &Definition{name: name, codec: DefaultCodec}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	ctxT := reflect.TypeFor[C]()
	resT := reflect.TypeFor[R]()
	if ctxT.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: task %q context type %s must be a struct", ErrBadHandler, name, ctxT)
	}
	if resT.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: task %q result type %s must be a struct", ErrBadHandler, name, resT)
	}

	ctxID, err := d.codec.RegisterType(ctxT)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", name, err)
	}
	if _, err := d.codec.RegisterType(resT); err != nil {
		return nil, fmt.Errorf("task %q: %w", name, err)
	}
	d.contextType = ctxT
	d.resultType = resT
	d.contextID = ctxID

	if d.schemaRaw != nil {
		sch, err := compileSchema(d.schemaRaw)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", name, err)
		}
		d.schema = sch
	}

	d.invoke = func(ctx context.Context, agentID uuid.UUID, raw []byte) (any, error) {
		var in C
		if err := d.codec.DecodeInto(raw, &in); err != nil {
			return nil, err
		}
		return fn(ctx, agentID, in)
	}
	return d, nil
}

// NewDynamic builds a definition whose context and result types are only
// known at runtime, for callers that assemble handlers by composition.
// The handler receives a pointer to the decoded context struct and must
// return a value of (or pointer to) the declared result type.
func NewDynamic(name string, contextType, resultType reflect.Type, fn func(ctx context.Context, agentID uuid.UUID, in any) (any, error), opts ...Option) (*Definition, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty task name", ErrBadHandler)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: nil handler for task %q", ErrBadHandler, name)
	}

	d := &Definition{name: name, codec: DefaultCodec}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	ctxID, err := d.codec.RegisterType(contextType)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", name, err)
	}
	if _, err := d.codec.RegisterType(resultType); err != nil {
		return nil, fmt.Errorf("task %q: %w", name, err)
	}
	if contextType.Kind() == reflect.Pointer {
		contextType = contextType.Elem()
	}
	if resultType.Kind() == reflect.Pointer {
		resultType = resultType.Elem()
	}
	d.contextType = contextType
	d.resultType = resultType
	d.contextID = ctxID

	if d.schemaRaw != nil {
		sch, err := compileSchema(d.schemaRaw)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", name, err)
		}
		d.schema = sch
	}

	d.invoke = func(ctx context.Context, agentID uuid.UUID, raw []byte) (any, error) {
		in, err := d.codec.Decode(raw)
		if err != nil {
			return nil, err
		}
		if reflect.TypeOf(in).Elem() != d.contextType {
			return nil, fmt.Errorf("%w: task %q wants context %s, got %T", ErrSerialization, name, d.contextType, in)
		}
		return fn(ctx, agentID, in)
	}
	return d, nil
}

// MustNew is New, panicking on error. Intended for package-level task
// declarations where a bad definition is a programming error.
func MustNew[C, R any](name string, fn Handler[C, R], opts ...Option) *Definition {
	d, err := New(name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func compileSchema(raw []byte) (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return sch, nil
}

// Name returns the registered task name.
func (d *Definition) Name() string { return d.name }

// ContextType returns the handler's context struct type.
func (d *Definition) ContextType() reflect.Type { return d.contextType }

// ResultType returns the handler's result struct type.
func (d *Definition) ResultType() reflect.Type { return d.resultType }

// EncodeContext serializes a context value for enqueueing. The value must
// be assignable to the definition's context type.
func (d *Definition) EncodeContext(v any) ([]byte, error) {
	t := reflect.TypeOf(v)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != d.contextType {
		return nil, fmt.Errorf("%w: task %q wants context %s, got %T", ErrSerialization, d.name, d.contextType, v)
	}
	return d.codec.Encode(v)
}

// Execute decodes the raw context payload, validates it against the
// optional JSON Schema, runs the handler, and encodes the result for the
// rendezvous.
func (d *Definition) Execute(ctx context.Context, agentID uuid.UUID, rawContext []byte) ([]byte, error) {
	if d.schema != nil {
		if err := d.validateContext(rawContext); err != nil {
			return nil, err
		}
	}
	result, err := d.invoke(ctx, agentID, rawContext)
	if err != nil {
		return nil, err
	}
	encoded, err := d.codec.Encode(result)
	if err != nil {
		return nil, fmt.Errorf("task %q result: %w", d.name, err)
	}
	return encoded, nil
}

// validateContext checks the tagged payload's data against the attached
// JSON Schema.
func (d *Definition) validateContext(rawContext []byte) error {
	var tag tagged
	if err := json.Unmarshal(rawContext, &tag); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	var doc any
	if err := json.Unmarshal(tag.Data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := d.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: task %q context: %v", ErrSerialization, d.name, err)
	}
	return nil
}
