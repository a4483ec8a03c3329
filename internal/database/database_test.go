package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wager-analyst/internal/config"
)

func TestSchemaDeclaresTables(t *testing.T) {
	schema := Schema()
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS bet_records")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS prediction_snapshots")
	assert.True(t, strings.Contains(schema, "snapshot_date DATE PRIMARY KEY"))
}

func TestNewDBRejectsUnreachableHost(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Host: "127.0.0.1", Port: 1, Name: "db", User: "u", Password: "p", SSLMode: "disable", MaxConnections: 2,
	}}

	_, err := NewDB(context.Background(), cfg)
	require.Error(t, err)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.HealthCheck(ctx))
}
