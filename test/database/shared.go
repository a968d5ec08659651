package database

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"testing"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/stretchr/testify/require"

	"github.com/agentexec/agentexec/ent"
	"github.com/agentexec/agentexec/pkg/database"
	"github.com/agentexec/agentexec/test/util"
)

// SharedTestDB creates a single PostgreSQL schema shared by multiple
// clients. Each client gets its own connection pool but all pools point
// to the same schema, enabling cross-process tests such as NOTIFY/LISTEN
// delivery and shutdown-flag coordination between worker pools.
type SharedTestDB struct {
	connStrWithSchema string
	schemaName        string
}

// NewSharedTestDB creates the shared schema, runs migrations once, and
// registers t.Cleanup to drop the schema.
func NewSharedTestDB(t *testing.T) *SharedTestDB {
	t.Helper()
	ctx := context.Background()

	baseConnStr := util.GetBaseConnectionString(t)
	schemaName := util.GenerateSchemaName(t)

	db, err := stdsql.Open("pgx", baseConnStr)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA %s", schemaName))
	require.NoError(t, err)
	t.Logf("SharedTestDB: created schema %s", schemaName)
	_ = db.Close()

	connStrWithSchema := util.AddSearchPathToConnString(baseConnStr, schemaName)
	db, err = stdsql.Open("pgx", connStrWithSchema)
	require.NoError(t, err)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	drv := entsql.OpenDB(dialect.Postgres, db)
	entClient := ent.NewClient(ent.Driver(drv))
	err = entClient.Schema.Create(ctx)
	require.NoError(t, err)

	// Close the migration client; each caller creates its own.
	_ = entClient.Close()
	_ = db.Close()

	// LIFO cleanup order guarantees per-client cleanups run first.
	t.Cleanup(func() {
		cleanDB, err := stdsql.Open("pgx", baseConnStr)
		if err != nil {
			t.Logf("SharedTestDB: warning: could not connect to drop schema %s: %v", schemaName, err)
			return
		}
		defer func() { _ = cleanDB.Close() }()
		if _, err := cleanDB.ExecContext(context.Background(), fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName)); err != nil {
			t.Logf("SharedTestDB: warning: failed to drop schema %s: %v", schemaName, err)
		}
	})

	return &SharedTestDB{
		connStrWithSchema: connStrWithSchema,
		schemaName:        schemaName,
	}
}

// NewClient creates an independent *database.Client backed by a fresh
// connection pool on the shared schema.
func (s *SharedTestDB) NewClient(t *testing.T) *database.Client {
	t.Helper()

	db, err := stdsql.Open("pgx", s.connStrWithSchema)
	require.NoError(t, err)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	drv := entsql.OpenDB(dialect.Postgres, db)
	entClient := ent.NewClient(ent.Driver(drv))
	client := database.NewClientFromEnt(entClient, db, s.connStrWithSchema)

	t.Cleanup(func() {
		_ = entClient.Close()
		_ = db.Close()
	})

	return client
}
