package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QueueItem holds the schema definition for the QueueItem entity.
// Backing table for the SQL state backend's priority list. The integer
// primary key doubles as the insertion-order tiebreaker: consumers pop
// by (priority ASC, id ASC) under FOR UPDATE SKIP LOCKED.
type QueueItem struct {
	ent.Schema
}

// Fields of the QueueItem.
func (QueueItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("queue").
			Comment("List name the item belongs to"),
		field.Int("priority").
			Comment("0 = pushed to front (high), 1 = pushed to back (low)"),
		field.Bytes("payload"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Indexes of the QueueItem.
func (QueueItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("queue", "priority"),
	}
}

// Annotations of the QueueItem.
func (QueueItem) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "agentexec_queue_items"},
	}
}
