package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// tagged is the wire form of every context and result payload. The schema
// tag names the registered Go type the data belongs to, so a consumer can
// reject payloads it does not know how to decode instead of guessing.
type tagged struct {
	Schema string          `json:"__schema__"`
	Data   json.RawMessage `json:"__data__"`
}

// Codec maintains the bidirectional mapping between schema identifiers and
// registered Go struct types. It is safe for concurrent use.
type Codec struct {
	mu     sync.RWMutex
	byID   map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewCodec returns an empty codec.
func NewCodec() *Codec {
	return &Codec{
		byID:   make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
}

// schemaID derives the identifier for a struct type from its package path
// and name, e.g. "example.com/billing.InvoiceContext".
func schemaID(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// structType returns the underlying struct type of v's type, unwrapping a
// pointer if present. Returns an error for anything else.
func structType(t reflect.Type) (reflect.Type, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct type", ErrBadHandler, t)
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("%w: anonymous struct types cannot be registered", ErrBadHandler)
	}
	return t, nil
}

// RegisterType records t under its derived schema identifier. Registering
// the same type twice is a no-op; a different type with a colliding
// identifier is an error.
func (c *Codec) RegisterType(t reflect.Type) (string, error) {
	st, err := structType(t)
	if err != nil {
		return "", err
	}
	id := schemaID(st)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.byID[id]; ok {
		if existing != st {
			return "", fmt.Errorf("%w: schema %q already registered for %s", ErrBadHandler, id, existing)
		}
		return id, nil
	}
	c.byID[id] = st
	c.byType[st] = id
	return id, nil
}

// Encode wraps v in its schema tag and marshals the pair. The type of v
// must have been registered.
func (c *Codec) Encode(v any) ([]byte, error) {
	st, err := structType(reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	id, ok := c.byType[st]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: type %s not registered", ErrSerialization, st)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	out, err := json.Marshal(tagged{Schema: id, Data: data})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return out, nil
}

// Decode unmarshals a tagged payload into a new value of its registered
// type and returns a pointer to it. Unknown schema tags and unknown fields
// fail closed with ErrSerialization.
func (c *Codec) Decode(payload []byte) (any, error) {
	var tag tagged
	if err := json.Unmarshal(payload, &tag); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if tag.Schema == "" {
		return nil, fmt.Errorf("%w: payload has no schema tag", ErrSerialization)
	}

	c.mu.RLock()
	st, ok := c.byID[tag.Schema]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown schema %q", ErrSerialization, tag.Schema)
	}

	out := reflect.New(st).Interface()
	dec := json.NewDecoder(bytes.NewReader(tag.Data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("%w: schema %q: %v", ErrSerialization, tag.Schema, err)
	}
	return out, nil
}

// DecodeInto unmarshals a tagged payload into dst, which must be a pointer
// to a registered struct type matching the payload's schema tag.
func (c *Codec) DecodeInto(payload []byte, dst any) error {
	st, err := structType(reflect.TypeOf(dst))
	if err != nil {
		return err
	}

	c.mu.RLock()
	want, registered := c.byType[st]
	c.mu.RUnlock()
	if !registered {
		return fmt.Errorf("%w: type %s not registered", ErrSerialization, st)
	}

	var tag tagged
	if err := json.Unmarshal(payload, &tag); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if tag.Schema != want {
		return fmt.Errorf("%w: payload schema %q does not match %q", ErrSerialization, tag.Schema, want)
	}

	dec := json.NewDecoder(bytes.NewReader(tag.Data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: schema %q: %v", ErrSerialization, tag.Schema, err)
	}
	return nil
}

// DefaultCodec is the process-wide codec used by registries that are not
// given an explicit one.
var DefaultCodec = NewCodec()
