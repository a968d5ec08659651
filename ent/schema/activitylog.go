package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// ActivityLog holds the schema definition for the ActivityLog entity.
// Append-only status transitions for one activity. Rows are never updated
// or deleted individually; the newest row defines the activity's status.
// The integer primary key doubles as the insertion-order tiebreaker when
// two transitions land on the same timestamp.
type ActivityLog struct {
	ent.Schema
}

// Fields of the ActivityLog.
func (ActivityLog) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("activity_id", uuid.UUID{}).
			Immutable(),
		field.Text("message"),
		field.Enum("status").
			Values("queued", "running", "complete", "error", "canceled"),
		field.Int("percentage").
			Optional().
			Nillable().
			Comment("Completion percentage 0-100, absent for status-only transitions"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ActivityLog.
func (ActivityLog) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("activity", Activity.Type).
			Ref("logs").
			Field("activity_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ActivityLog.
func (ActivityLog) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("activity_id", "created_at"),
		index.Fields("status"),
	}
}

// Annotations of the ActivityLog.
func (ActivityLog) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "agentexec_activity_log"},
	}
}
