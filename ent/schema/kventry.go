package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// KVEntry holds the schema definition for the KVEntry entity.
// Backing table for the SQL state backend's key-value store. Expired rows
// are filtered on read and lazily deleted.
type KVEntry struct {
	ent.Schema
}

// Fields of the KVEntry.
func (KVEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("key").
			Unique().
			Immutable(),
		field.Bytes("value"),
		field.Time("expires_at").
			Optional().
			Nillable().
			Comment("Nil means no TTL"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Indexes of the KVEntry.
func (KVEntry) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("expires_at"),
	}
}

// Annotations of the KVEntry.
func (KVEntry) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "agentexec_kv_entries"},
	}
}
