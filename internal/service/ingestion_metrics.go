package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionSummary is a point-in-time copy of the import counters
type IngestionSummary struct {
	StartTime        time.Time     `json:"start_time"`
	Duration         time.Duration `json:"duration"`
	Fetched          int           `json:"fetched"`
	Duplicates       int           `json:"duplicates"`
	ValidationErrors int           `json:"validation_errors"`
	Inserted         int           `json:"inserted"`
	FailedBatches    int           `json:"failed_batches"`
}

// IngestionMetrics tracks statistics about one import run
type IngestionMetrics struct {
	mu sync.RWMutex
	s  IngestionSummary
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{s: IngestionSummary{StartTime: time.Now()}}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = IngestionSummary{StartTime: time.Now()}
}

func (m *IngestionMetrics) recordFetched(raw, unique int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.Fetched = raw
	m.s.Duplicates = raw - unique
}

func (m *IngestionMetrics) recordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.ValidationErrors++
}

func (m *IngestionMetrics) recordBatch(size int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.s.FailedBatches++
		return
	}
	m.s.Inserted += size
}

func (m *IngestionMetrics) finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.Duration = time.Since(m.s.StartTime)
}

// Snapshot returns a copy of the counters
func (m *IngestionMetrics) Snapshot() IngestionSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	s := m.Snapshot()
	return fmt.Sprintf(
		"IngestionMetrics{Fetched=%d, Duplicates=%d, ValidationErrors=%d, Inserted=%d, FailedBatches=%d, Duration=%v}",
		s.Fetched, s.Duplicates, s.ValidationErrors, s.Inserted, s.FailedBatches, s.Duration,
	)
}
