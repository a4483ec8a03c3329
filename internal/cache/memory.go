// Package cache stores daily prediction snapshots in memory or in redis.
package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/wager-analyst/internal/metrics"
	"github.com/yourusername/wager-analyst/internal/models"
)

const memoryBackend = "memory"

// MemorySnapshotStore keeps snapshots in process, keyed by calendar date
type MemorySnapshotStore struct {
	cache *gocache.Cache
	ttl   time.Duration

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewMemorySnapshotStore creates a store whose entries expire after ttl
func NewMemorySnapshotStore(ttl time.Duration) *MemorySnapshotStore {
	return &MemorySnapshotStore{
		cache: gocache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Name returns the backend name
func (s *MemorySnapshotStore) Name() string {
	return memoryBackend
}

// Get returns the snapshot stored for date
func (s *MemorySnapshotStore) Get(ctx context.Context, date string) (*models.PredictionSnapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	if item, found := s.cache.Get(date); found {
		if snapshot, ok := item.(*models.PredictionSnapshot); ok {
			s.count(true)
			metrics.RecordSnapshotLookup(memoryBackend, "hit")
			return snapshot, true, nil
		}
	}

	s.count(false)
	metrics.RecordSnapshotLookup(memoryBackend, "miss")
	return nil, false, nil
}

// Put stores snapshot under its date, replacing any earlier entry
func (s *MemorySnapshotStore) Put(ctx context.Context, snapshot *models.PredictionSnapshot) error {
	if err := ctx.Err(); err != nil {
		metrics.RecordSnapshotWrite(memoryBackend, "failure", 0)
		return err
	}

	s.cache.Set(snapshot.Date, snapshot, s.ttl)
	metrics.RecordSnapshotWrite(memoryBackend, "success", float64(snapshot.GeneratedAt.Unix()))
	return nil
}

// Delete removes the snapshot for date
func (s *MemorySnapshotStore) Delete(date string) {
	s.cache.Delete(date)
}

// Clear flushes every snapshot and resets the counters
func (s *MemorySnapshotStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Flush()
	s.hitCount = 0
	s.missCount = 0
}

// Stats returns lookup statistics
func (s *MemorySnapshotStore) Stats() (hits, misses uint64, ratio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hits = s.hitCount
	misses = s.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of stored snapshots
func (s *MemorySnapshotStore) ItemCount() int {
	return s.cache.ItemCount()
}

func (s *MemorySnapshotStore) count(hit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hit {
		s.hitCount++
	} else {
		s.missCount++
	}
}
