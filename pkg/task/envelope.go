package task

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Envelope is the queue wire format for one task invocation. The context
// field carries the schema-tagged payload produced by Codec.Encode.
type Envelope struct {
	TaskName string          `json:"task_name"`
	AgentID  uuid.UUID       `json:"agent_id"`
	Context  json.RawMessage `json:"context"`
}

// EncodeEnvelope marshals an envelope for the queue.
func EncodeEnvelope(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// DecodeEnvelope unmarshals a queue item. The context payload stays raw
// until the task definition decodes it.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if env.TaskName == "" {
		return Envelope{}, fmt.Errorf("%w: envelope has no task name", ErrSerialization)
	}
	if env.AgentID == uuid.Nil {
		return Envelope{}, fmt.Errorf("%w: envelope has no agent id", ErrSerialization)
	}
	return env, nil
}
