package task

import "errors"

// Sentinel errors for task registration and payload handling.
var (
	// ErrUnknownTask indicates a task name with no registered definition.
	ErrUnknownTask = errors.New("unknown task")

	// ErrDuplicateTask indicates a second registration under an existing
	// task name.
	ErrDuplicateTask = errors.New("task already registered")

	// ErrBadHandler indicates a handler whose context or result type
	// cannot be registered (only structs carry a schema tag).
	ErrBadHandler = errors.New("invalid task handler")

	// ErrSerialization indicates a payload that cannot be encoded or
	// decoded: unknown schema tag, malformed JSON, unknown fields, or a
	// schema validation failure. Items failing this way are dropped, not
	// retried.
	ErrSerialization = errors.New("payload serialization failed")
)
