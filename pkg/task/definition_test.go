package task

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greet(_ context.Context, _ uuid.UUID, in greetContext) (greetResult, error) {
	return greetResult{Message: fmt.Sprintf("hello %s x%d", in.Name, in.Count)}, nil
}

func TestDefinition_Execute(t *testing.T) {
	codec := NewCodec()
	def, err := New("greet", greet, WithCodec(codec))
	require.NoError(t, err)
	assert.Equal(t, "greet", def.Name())

	payload, err := def.EncodeContext(greetContext{Name: "ada", Count: 2})
	require.NoError(t, err)

	out, err := def.Execute(context.Background(), uuid.New(), payload)
	require.NoError(t, err)

	var res greetResult
	require.NoError(t, codec.DecodeInto(out, &res))
	assert.Equal(t, "hello ada x2", res.Message)
}

func TestDefinition_HandlerError(t *testing.T) {
	def, err := New("failing", func(_ context.Context, _ uuid.UUID, _ greetContext) (greetResult, error) {
		return greetResult{}, fmt.Errorf("boom")
	}, WithCodec(NewCodec()))
	require.NoError(t, err)

	payload, err := def.EncodeContext(greetContext{})
	require.NoError(t, err)

	_, err = def.Execute(context.Background(), uuid.New(), payload)
	assert.ErrorContains(t, err, "boom")
}

func TestDefinition_AgentIDReachesHandler(t *testing.T) {
	var seen uuid.UUID
	def, err := New("capture", func(_ context.Context, agentID uuid.UUID, _ greetContext) (greetResult, error) {
		seen = agentID
		return greetResult{}, nil
	}, WithCodec(NewCodec()))
	require.NoError(t, err)

	payload, err := def.EncodeContext(greetContext{})
	require.NoError(t, err)

	want := uuid.New()
	_, err = def.Execute(context.Background(), want, payload)
	require.NoError(t, err)
	assert.Equal(t, want, seen)
}

func TestDefinition_NonStructTypesRejected(t *testing.T) {
	_, err := New("bad-context", func(_ context.Context, _ uuid.UUID, _ int) (greetResult, error) {
		return greetResult{}, nil
	}, WithCodec(NewCodec()))
	assert.ErrorIs(t, err, ErrBadHandler)

	_, err = New("bad-result", func(_ context.Context, _ uuid.UUID, _ greetContext) (string, error) {
		return "", nil
	}, WithCodec(NewCodec()))
	assert.ErrorIs(t, err, ErrBadHandler)
}

func TestDefinition_EncodeContextTypeMismatch(t *testing.T) {
	def, err := New("greet", greet, WithCodec(NewCodec()))
	require.NoError(t, err)

	_, err = def.EncodeContext(greetResult{})
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDefinition_ContextSchemaValidation(t *testing.T) {
	schema := []byte(`{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"count": {"type": "integer", "minimum": 0}
		},
		"required": ["name"]
	}`)

	codec := NewCodec()
	def, err := New("validated", greet, WithCodec(codec), WithContextSchema(schema))
	require.NoError(t, err)

	valid, err := def.EncodeContext(greetContext{Name: "ok", Count: 1})
	require.NoError(t, err)
	_, err = def.Execute(context.Background(), uuid.New(), valid)
	assert.NoError(t, err)

	invalid, err := def.EncodeContext(greetContext{Name: "", Count: 1})
	require.NoError(t, err)
	_, err = def.Execute(context.Background(), uuid.New(), invalid)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestDefinition_BadSchemaRejectedAtConstruction(t *testing.T) {
	_, err := New("broken-schema", greet,
		WithCodec(NewCodec()),
		WithContextSchema([]byte(`{"type": 17}`)))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	codec := NewCodec()

	def, err := Register(r, "greet", greet, WithCodec(codec))
	require.NoError(t, err)

	got, err := r.Get("greet")
	require.NoError(t, err)
	assert.Same(t, def, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownTask)

	_, err = Register(r, "greet", greet, WithCodec(codec))
	assert.ErrorIs(t, err, ErrDuplicateTask)

	_, err = Register(r, "other", greet, WithCodec(codec))
	require.NoError(t, err)
	assert.Equal(t, []string{"greet", "other"}, r.Names())
}

func TestEnvelope_RoundTrip(t *testing.T) {
	id := uuid.New()
	data, err := EncodeEnvelope(Envelope{
		TaskName: "greet",
		AgentID:  id,
		Context:  []byte(`{"__schema__":"x","__data__":{}}`),
	})
	require.NoError(t, err)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, "greet", env.TaskName)
	assert.Equal(t, id, env.AgentID)
}

func TestEnvelope_Invalid(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`not json`))
	assert.ErrorIs(t, err, ErrSerialization)

	_, err = DecodeEnvelope([]byte(`{"agent_id":"` + uuid.New().String() + `"}`))
	assert.ErrorIs(t, err, ErrSerialization)

	_, err = DecodeEnvelope([]byte(`{"task_name":"greet"}`))
	assert.ErrorIs(t, err, ErrSerialization)
}
