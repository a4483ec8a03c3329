package repository

import (
	"context"

	"github.com/yourusername/wager-analyst/internal/models"
)

// BetRecordRepository defines the interface for bet record data access
type BetRecordRepository interface {
	InsertBatch(ctx context.Context, records []models.BetRecord) error
	FetchRecords(ctx context.Context) ([]models.BetRecord, error)
	Count(ctx context.Context) (int, error)
	Name() string
}

// SnapshotRepository persists one prediction snapshot per calendar date
type SnapshotRepository interface {
	Get(ctx context.Context, date string) (*models.PredictionSnapshot, bool, error)
	Put(ctx context.Context, snapshot *models.PredictionSnapshot) error
	ListDates(ctx context.Context, limit int) ([]string, error)
	Name() string
}
