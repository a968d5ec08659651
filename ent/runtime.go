// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/agentexec/agentexec/ent/activity"
	"github.com/agentexec/agentexec/ent/activitylog"
	"github.com/agentexec/agentexec/ent/kventry"
	"github.com/agentexec/agentexec/ent/queueitem"
	"github.com/agentexec/agentexec/ent/schema"
	"github.com/google/uuid"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	activityFields := schema.Activity{}.Fields()
	_ = activityFields
	// activityDescCreatedAt is the schema descriptor for created_at field.
	activityDescCreatedAt := activityFields[3].Descriptor()
	// activity.DefaultCreatedAt holds the default value on creation for the created_at field.
	activity.DefaultCreatedAt = activityDescCreatedAt.Default.(func() time.Time)
	// activityDescUpdatedAt is the schema descriptor for updated_at field.
	activityDescUpdatedAt := activityFields[4].Descriptor()
	// activity.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	activity.DefaultUpdatedAt = activityDescUpdatedAt.Default.(func() time.Time)
	// activity.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	activity.UpdateDefaultUpdatedAt = activityDescUpdatedAt.UpdateDefault.(func() time.Time)
	// activityDescID is the schema descriptor for id field.
	activityDescID := activityFields[0].Descriptor()
	// activity.DefaultID holds the default value on creation for the id field.
	activity.DefaultID = activityDescID.Default.(func() uuid.UUID)
	activitylogFields := schema.ActivityLog{}.Fields()
	_ = activitylogFields
	// activitylogDescCreatedAt is the schema descriptor for created_at field.
	activitylogDescCreatedAt := activitylogFields[4].Descriptor()
	// activitylog.DefaultCreatedAt holds the default value on creation for the created_at field.
	activitylog.DefaultCreatedAt = activitylogDescCreatedAt.Default.(func() time.Time)
	kventryFields := schema.KVEntry{}.Fields()
	_ = kventryFields
	// kventryDescUpdatedAt is the schema descriptor for updated_at field.
	kventryDescUpdatedAt := kventryFields[3].Descriptor()
	// kventry.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	kventry.DefaultUpdatedAt = kventryDescUpdatedAt.Default.(func() time.Time)
	// kventry.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	kventry.UpdateDefaultUpdatedAt = kventryDescUpdatedAt.UpdateDefault.(func() time.Time)
	queueitemFields := schema.QueueItem{}.Fields()
	_ = queueitemFields
	// queueitemDescCreatedAt is the schema descriptor for created_at field.
	queueitemDescCreatedAt := queueitemFields[3].Descriptor()
	// queueitem.DefaultCreatedAt holds the default value on creation for the created_at field.
	queueitem.DefaultCreatedAt = queueitemDescCreatedAt.Default.(func() time.Time)
}
