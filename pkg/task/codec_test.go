package task

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetContext struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type greetResult struct {
	Message string `json:"message"`
}

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec()
	_, err := c.RegisterType(reflect.TypeOf(greetContext{}))
	require.NoError(t, err)

	payload, err := c.Encode(greetContext{Name: "ada", Count: 3})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"__schema__"`)
	assert.Contains(t, string(payload), `"__data__"`)

	decoded, err := c.Decode(payload)
	require.NoError(t, err)
	got, ok := decoded.(*greetContext)
	require.True(t, ok)
	assert.Equal(t, "ada", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestCodec_EncodePointer(t *testing.T) {
	c := NewCodec()
	_, err := c.RegisterType(reflect.TypeOf(&greetContext{}))
	require.NoError(t, err)

	payload, err := c.Encode(&greetContext{Name: "ptr"})
	require.NoError(t, err)

	var out greetContext
	require.NoError(t, c.DecodeInto(payload, &out))
	assert.Equal(t, "ptr", out.Name)
}

func TestCodec_UnknownSchemaFailsClosed(t *testing.T) {
	c := NewCodec()

	_, err := c.Decode([]byte(`{"__schema__":"nobody.Knows","__data__":{}}`))
	assert.ErrorIs(t, err, ErrSerialization)
	assert.ErrorContains(t, err, "nobody.Knows")
}

func TestCodec_MissingSchemaTag(t *testing.T) {
	c := NewCodec()

	_, err := c.Decode([]byte(`{"name":"bare"}`))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestCodec_UnknownFieldsRejected(t *testing.T) {
	c := NewCodec()
	id, err := c.RegisterType(reflect.TypeOf(greetContext{}))
	require.NoError(t, err)

	payload := []byte(`{"__schema__":"` + id + `","__data__":{"name":"x","extra":true}}`)
	_, err = c.Decode(payload)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestCodec_EncodeUnregisteredType(t *testing.T) {
	c := NewCodec()

	_, err := c.Encode(greetContext{})
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestCodec_RegisterNonStruct(t *testing.T) {
	c := NewCodec()

	_, err := c.RegisterType(reflect.TypeOf(42))
	assert.ErrorIs(t, err, ErrBadHandler)

	_, err = c.RegisterType(reflect.TypeOf(struct{ X int }{}))
	assert.ErrorIs(t, err, ErrBadHandler)
}

func TestCodec_RegisterIdempotent(t *testing.T) {
	c := NewCodec()

	id1, err := c.RegisterType(reflect.TypeOf(greetContext{}))
	require.NoError(t, err)
	id2, err := c.RegisterType(reflect.TypeOf(greetContext{}))
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestCodec_DecodeIntoSchemaMismatch(t *testing.T) {
	c := NewCodec()
	_, err := c.RegisterType(reflect.TypeOf(greetContext{}))
	require.NoError(t, err)
	_, err = c.RegisterType(reflect.TypeOf(greetResult{}))
	require.NoError(t, err)

	payload, err := c.Encode(greetContext{Name: "a"})
	require.NoError(t, err)

	var out greetResult
	err = c.DecodeInto(payload, &out)
	assert.ErrorIs(t, err, ErrSerialization)
}
