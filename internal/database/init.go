package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/yourusername/wager-analyst/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL applied by EnsureSchema
func Schema() string {
	return schemaSQL
}

// Initialize opens the pool and creates the tables when they are missing
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema applies the idempotent schema
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
