// Package database provides the PostgreSQL client and migration utilities
// backing the activity store and the SQL state backend.
package database

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/agentexec/agentexec/ent"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
)

// Client wraps the Ent client and provides access to the underlying database.
type Client struct {
	*ent.Client
	db  *stdsql.DB
	dsn string
}

// DB returns the underlying database connection for health checks and
// direct queries.
func (c *Client) DB() *stdsql.DB {
	return c.db
}

// DSN returns the connection string the client was opened with. Dedicated
// LISTEN connections (see pkg/state) are established from it.
func (c *Client) DSN() string {
	return c.dsn
}

// NewClientFromEnt wraps an existing Ent client (useful for testing).
func NewClientFromEnt(entClient *ent.Client, db *stdsql.DB, dsn string) *Client {
	return &Client{
		Client: entClient,
		db:     db,
		dsn:    dsn,
	}
}

// NewClient creates a new database client with connection pooling and runs
// pending migrations.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	dsn := cfg.DSN()

	db, err := stdsql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Ent rides on the pooled database/sql connection; pgx does the wire work.
	drv := entsql.OpenDB(dialect.Postgres, db)
	entClient := ent.NewClient(ent.Driver(drv))

	if err := runMigrations(db, cfg); err != nil {
		_ = entClient.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Client{
		Client: entClient,
		db:     db,
		dsn:    dsn,
	}, nil
}
