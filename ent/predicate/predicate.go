// Code generated by ent, DO NOT EDIT.

package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// Activity is the predicate function for activity builders.
type Activity func(*sql.Selector)

// ActivityLog is the predicate function for activitylog builders.
type ActivityLog func(*sql.Selector)

// KVEntry is the predicate function for kventry builders.
type KVEntry func(*sql.Selector)

// QueueItem is the predicate function for queueitem builders.
type QueueItem func(*sql.Selector)
