package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/wager-analyst/internal/database"
	"github.com/yourusername/wager-analyst/internal/metrics"
	"github.com/yourusername/wager-analyst/internal/models"
)

const postgresBackend = "postgres"

// PostgresSnapshotRepository stores snapshots as JSONB keyed by date
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Name returns the backend name
func (r *PostgresSnapshotRepository) Name() string {
	return postgresBackend
}

// Get returns the snapshot stored for date
func (r *PostgresSnapshotRepository) Get(ctx context.Context, date string) (*models.PredictionSnapshot, bool, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = r.db.GetPool().QueryRow(ctx,
		"SELECT payload FROM prediction_snapshots WHERE snapshot_date = $1", day).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.RecordSnapshotLookup(postgresBackend, "miss")
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordSnapshotLookup(postgresBackend, "error")
		return nil, false, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot models.PredictionSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		metrics.RecordSnapshotLookup(postgresBackend, "error")
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	metrics.RecordSnapshotLookup(postgresBackend, "hit")
	return &snapshot, true, nil
}

// Put upserts the snapshot for its date
func (r *PostgresSnapshotRepository) Put(ctx context.Context, snapshot *models.PredictionSnapshot) error {
	day, err := parseDate(snapshot.Date)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO prediction_snapshots (snapshot_date, snapshot_id, generated_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (snapshot_date) DO UPDATE
		SET snapshot_id = EXCLUDED.snapshot_id,
		    generated_at = EXCLUDED.generated_at,
		    payload = EXCLUDED.payload
	`
	if _, err := r.db.GetPool().Exec(ctx, query, day, snapshot.ID, snapshot.GeneratedAt, payload); err != nil {
		metrics.RecordSnapshotWrite(postgresBackend, "failure", 0)
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	metrics.RecordSnapshotWrite(postgresBackend, "success", float64(snapshot.GeneratedAt.Unix()))
	return nil
}

// ListDates returns the most recent snapshot dates, newest first
func (r *PostgresSnapshotRepository) ListDates(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.GetPool().Query(ctx,
		"SELECT snapshot_date FROM prediction_snapshots ORDER BY snapshot_date DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot date: %w", err)
		}
		dates = append(dates, day.Format(time.DateOnly))
	}
	return dates, rows.Err()
}

func parseDate(date string) (time.Time, error) {
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: snapshot date %q", models.ErrInvalidInput, date)
	}
	return day, nil
}
