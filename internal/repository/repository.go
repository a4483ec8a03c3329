// Package repository implements PostgreSQL persistence for bet records and
// prediction snapshots.
package repository

import (
	"fmt"

	"github.com/yourusername/wager-analyst/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	BetRecord BetRecordRepository
	Snapshot  SnapshotRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		BetRecord: NewPostgresBetRecordRepository(db),
		Snapshot:  NewPostgresSnapshotRepository(db),
	}, nil
}
