// Package scheduler runs the recurring snapshot and import jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wager-analyst/internal/models"
	"github.com/yourusername/wager-analyst/internal/service"
)

const defaultJobTimeout = 30 * time.Minute

// SnapshotGenerator produces and stores today's prediction snapshot
type SnapshotGenerator interface {
	GenerateSnapshot(ctx context.Context) (*models.PredictionSnapshot, error)
}

// Importer copies records from the configured source into the database
type Importer interface {
	Import(ctx context.Context) (*service.IngestionMetrics, error)
}

// Scheduler manages scheduled analysis jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler that interprets cron specs in loc
func NewScheduler(loc *time.Location, logger *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(loc)),
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		jobTimeout:      defaultJobTimeout,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleDailySnapshot regenerates the snapshot for the current day on spec
func (s *Scheduler) ScheduleDailySnapshot(spec string, generator SnapshotGenerator) (cron.EntryID, error) {
	return s.schedule(spec, "snapshot", func(ctx context.Context) error {
		snapshot, err := generator.GenerateSnapshot(ctx)
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"date":            snapshot.Date,
			"recommendations": len(snapshot.Recommendations),
		}).Info("Scheduled snapshot generated")
		return nil
	})
}

// ScheduleImport refreshes the record store from the source on spec
func (s *Scheduler) ScheduleImport(spec string, importer Importer) (cron.EntryID, error) {
	return s.schedule(spec, "import", func(ctx context.Context) error {
		m, err := importer.Import(ctx)
		if err != nil {
			return err
		}
		s.logger.WithField("metrics", m.String()).Info("Scheduled import completed")
		return nil
	})
}

func (s *Scheduler) schedule(spec, name string, job func(ctx context.Context) error) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return 0, fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.WithError(err).WithField("job", name).Error("Scheduled job failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"job":         name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Scheduled job finished")
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{"job": name, "schedule": spec}).Info("Scheduled job")
	return entryID, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler, waiting up to the graceful timeout for running jobs
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("timed out waiting for scheduled jobs to finish")
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest upcoming run, or the zero time when stopped
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		if entry := s.cron.Entry(jobID); entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	return nil
}
