package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDSNEnv names the variable holding the DSN of a disposable test database
const TestDSNEnv = "WAGER_ANALYST_TEST_DATABASE_DSN"

// SetupTestDB connects to the test database and applies the schema. The test
// is skipped when TestDSNEnv is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping database test", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	db := &DB{pool: pool}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to ping test database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() { TeardownTestDB(t, db) })
	return db
}

// TeardownTestDB truncates the tables and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.pool.Exec(ctx, "TRUNCATE bet_records, prediction_snapshots"); err != nil {
		t.Logf("warning: failed to truncate test tables: %v", err)
	}
	db.Close()
}
