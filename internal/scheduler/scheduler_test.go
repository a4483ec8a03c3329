package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wager-analyst/internal/models"
	"github.com/yourusername/wager-analyst/internal/service"
)

type countingGenerator struct {
	calls int32
	err   error
}

func (g *countingGenerator) GenerateSnapshot(ctx context.Context) (*models.PredictionSnapshot, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.err != nil {
		return nil, g.err
	}
	return &models.PredictionSnapshot{Date: "2024-04-01"}, nil
}

type countingImporter struct {
	calls int32
}

func (i *countingImporter) Import(ctx context.Context) (*service.IngestionMetrics, error) {
	atomic.AddInt32(&i.calls, 1)
	return service.NewIngestionMetrics(), nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestScheduleRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(time.UTC, quietLogger())
	_, err := s.ScheduleDailySnapshot("not a cron spec", &countingGenerator{})
	assert.Error(t, err)
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(time.UTC, quietLogger())
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())
}

func TestLifecycle(t *testing.T) {
	s := NewScheduler(time.UTC, quietLogger())

	id, err := s.ScheduleDailySnapshot("0 6 * * *", &countingGenerator{})
	require.NoError(t, err)
	_, err = s.ScheduleImport("0 5 * * *", &countingImporter{})
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 2)

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())

	next := s.NextRun()
	require.False(t, next.IsZero())
	assert.Equal(t, 5, next.In(time.UTC).Hour())

	_, err = s.ScheduleDailySnapshot("0 7 * * *", &countingGenerator{})
	assert.Error(t, err)
	assert.Error(t, s.RemoveJob(id))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop())

	require.NoError(t, s.RemoveJob(id))
	assert.Len(t, s.Entries(), 1)
}

func TestJobsRun(t *testing.T) {
	s := NewScheduler(time.UTC, quietLogger())

	generator := &countingGenerator{}
	failing := &countingGenerator{err: errors.New("source down")}
	importer := &countingImporter{}

	_, err := s.ScheduleDailySnapshot("@every 1s", generator)
	require.NoError(t, err)
	_, err = s.ScheduleDailySnapshot("@every 1s", failing)
	require.NoError(t, err)
	_, err = s.ScheduleImport("@every 1s", importer)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&generator.calls) > 0 &&
			atomic.LoadInt32(&failing.calls) > 0 &&
			atomic.LoadInt32(&importer.calls) > 0
	}, 5*time.Second, 50*time.Millisecond)
}
