package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wager-analyst/internal/analytics"
	"github.com/yourusername/wager-analyst/internal/metrics"
	"github.com/yourusername/wager-analyst/internal/models"
	"github.com/yourusername/wager-analyst/internal/repository"
)

const defaultBatchSize = 500

// IngestionService copies records from a source into the record repository
type IngestionService struct {
	source    RecordSource
	repo      repository.BetRecordRepository
	validator *RecordValidator
	logger    *logrus.Entry
	batchSize int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source RecordSource,
	repo repository.BetRecordRepository,
	logger *logrus.Logger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &IngestionService{
		source:    source,
		repo:      repo,
		validator: NewRecordValidator(),
		logger:    logger.WithField("component", "ingestion"),
		batchSize: batchSize,
	}
}

// Import fetches every record, drops duplicates and invalid records, and
// inserts the rest in batches. A failed batch is logged and skipped; Import
// fails only when nothing could be inserted.
func (s *IngestionService) Import(ctx context.Context) (*IngestionMetrics, error) {
	m := NewIngestionMetrics()
	defer m.finish()

	raw, err := s.source.FetchRecords(ctx)
	if err != nil {
		return m, fmt.Errorf("failed to fetch records from %s: %w", s.source.Name(), err)
	}

	unique := analytics.Deduplicate(raw)
	m.recordFetched(len(raw), len(unique))
	metrics.RecordIngestion(len(raw), len(unique))

	valid := make([]models.BetRecord, 0, len(unique))
	for _, record := range unique {
		if problems := s.validator.ValidateRecord(record); len(problems) > 0 {
			m.recordValidationError()
			s.logger.WithFields(logrus.Fields{
				"record":   record.IdentityKey(),
				"problems": problems,
			}).Debug("Skipping invalid record")
			continue
		}
		valid = append(valid, record)
	}

	var lastErr error
	for i := 0; i < len(valid); i += s.batchSize {
		if err := ctx.Err(); err != nil {
			return m, err
		}

		end := i + s.batchSize
		if end > len(valid) {
			end = len(valid)
		}
		batch := valid[i:end]

		err := s.repo.InsertBatch(ctx, batch)
		m.recordBatch(len(batch), err)
		if err != nil {
			lastErr = err
			s.logger.WithError(err).WithField("offset", i).Error("Failed to insert batch")
		}
	}

	snap := m.Snapshot()
	s.logger.WithFields(logrus.Fields{
		"source":            s.source.Name(),
		"destination":       s.repo.Name(),
		"fetched":           snap.Fetched,
		"duplicates":        snap.Duplicates,
		"validation_errors": snap.ValidationErrors,
		"inserted":          snap.Inserted,
		"failed_batches":    snap.FailedBatches,
	}).Info("Import complete")

	if lastErr != nil && snap.Inserted == 0 {
		return m, fmt.Errorf("failed to insert records: %w", lastErr)
	}
	return m, nil
}
