// Code generated by ent, DO NOT EDIT.

package migrate

import (
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// AgentexecActivityColumns holds the columns for the "agentexec_activity" table.
	AgentexecActivityColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "agent_id", Type: field.TypeUUID, Unique: true},
		{Name: "agent_type", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "metadata", Type: field.TypeJSON, Nullable: true},
	}
	// AgentexecActivityTable holds the schema information for the "agentexec_activity" table.
	AgentexecActivityTable = &schema.Table{
		Name:       "agentexec_activity",
		Columns:    AgentexecActivityColumns,
		PrimaryKey: []*schema.Column{AgentexecActivityColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "activity_agent_id",
				Unique:  false,
				Columns: []*schema.Column{AgentexecActivityColumns[1]},
			},
			{
				Name:    "activity_agent_type",
				Unique:  false,
				Columns: []*schema.Column{AgentexecActivityColumns[2]},
			},
		},
	}
	// AgentexecActivityLogColumns holds the columns for the "agentexec_activity_log" table.
	AgentexecActivityLogColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "message", Type: field.TypeString, Size: 2147483647},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"queued", "running", "complete", "error", "canceled"}},
		{Name: "percentage", Type: field.TypeInt, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "activity_id", Type: field.TypeUUID},
	}
	// AgentexecActivityLogTable holds the schema information for the "agentexec_activity_log" table.
	AgentexecActivityLogTable = &schema.Table{
		Name:       "agentexec_activity_log",
		Columns:    AgentexecActivityLogColumns,
		PrimaryKey: []*schema.Column{AgentexecActivityLogColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "agentexec_activity_log_agentexec_activity_logs",
				Columns:    []*schema.Column{AgentexecActivityLogColumns[5]},
				RefColumns: []*schema.Column{AgentexecActivityColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "activitylog_activity_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{AgentexecActivityLogColumns[5], AgentexecActivityLogColumns[4]},
			},
			{
				Name:    "activitylog_status",
				Unique:  false,
				Columns: []*schema.Column{AgentexecActivityLogColumns[2]},
			},
		},
	}
	// AgentexecKvEntriesColumns holds the columns for the "agentexec_kv_entries" table.
	AgentexecKvEntriesColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeBytes},
		{Name: "expires_at", Type: field.TypeTime, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// AgentexecKvEntriesTable holds the schema information for the "agentexec_kv_entries" table.
	AgentexecKvEntriesTable = &schema.Table{
		Name:       "agentexec_kv_entries",
		Columns:    AgentexecKvEntriesColumns,
		PrimaryKey: []*schema.Column{AgentexecKvEntriesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "kventry_expires_at",
				Unique:  false,
				Columns: []*schema.Column{AgentexecKvEntriesColumns[2]},
			},
		},
	}
	// AgentexecQueueItemsColumns holds the columns for the "agentexec_queue_items" table.
	AgentexecQueueItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "queue", Type: field.TypeString},
		{Name: "priority", Type: field.TypeInt},
		{Name: "payload", Type: field.TypeBytes},
		{Name: "created_at", Type: field.TypeTime},
	}
	// AgentexecQueueItemsTable holds the schema information for the "agentexec_queue_items" table.
	AgentexecQueueItemsTable = &schema.Table{
		Name:       "agentexec_queue_items",
		Columns:    AgentexecQueueItemsColumns,
		PrimaryKey: []*schema.Column{AgentexecQueueItemsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "queueitem_queue_priority",
				Unique:  false,
				Columns: []*schema.Column{AgentexecQueueItemsColumns[1], AgentexecQueueItemsColumns[2]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		AgentexecActivityTable,
		AgentexecActivityLogTable,
		AgentexecKvEntriesTable,
		AgentexecQueueItemsTable,
	}
)

func init() {
	AgentexecActivityTable.Annotation = &entsql.Annotation{
		Table: "agentexec_activity",
	}
	AgentexecActivityLogTable.ForeignKeys[0].RefTable = AgentexecActivityTable
	AgentexecActivityLogTable.Annotation = &entsql.Annotation{
		Table: "agentexec_activity_log",
	}
	AgentexecKvEntriesTable.Annotation = &entsql.Annotation{
		Table: "agentexec_kv_entries",
	}
	AgentexecQueueItemsTable.Annotation = &entsql.Annotation{
		Table: "agentexec_queue_items",
	}
}
