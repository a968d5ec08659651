package database

import (
	"testing"

	"github.com/agentexec/agentexec/pkg/database"
	"github.com/agentexec/agentexec/test/util"
)

// NewTestClient creates a test database client on an isolated schema.
// In CI (when CI_DATABASE_URL is set) it connects to the external
// PostgreSQL service container; locally it uses a shared testcontainer.
// Cleanup (schema drop and connection close) is registered on t.
func NewTestClient(t *testing.T) *database.Client {
	t.Helper()
	entClient, db, dsn := util.SetupTestDatabase(t)
	return database.NewClientFromEnt(entClient, db, dsn)
}
