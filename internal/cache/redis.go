package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/wager-analyst/internal/metrics"
	"github.com/yourusername/wager-analyst/internal/models"
)

const (
	redisBackend     = "redis"
	DefaultKeyPrefix = "wager-analyst:snapshot:"
)

// RedisSnapshotStore keeps snapshots as JSON blobs with a TTL
type RedisSnapshotStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSnapshotStore creates a redis-backed store
func NewRedisSnapshotStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSnapshotStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisSnapshotStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// NewRedisClient opens a client for addr and verifies it with PING
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Name returns the backend name
func (s *RedisSnapshotStore) Name() string {
	return redisBackend
}

// Key returns the redis key holding the snapshot for date
func (s *RedisSnapshotStore) Key(date string) string {
	return s.keyPrefix + date
}

// Get returns the snapshot stored for date
func (s *RedisSnapshotStore) Get(ctx context.Context, date string) (*models.PredictionSnapshot, bool, error) {
	data, err := s.client.Get(ctx, s.Key(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordSnapshotLookup(redisBackend, "miss")
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordSnapshotLookup(redisBackend, "error")
		return nil, false, fmt.Errorf("reading snapshot %s: %w", date, err)
	}

	var snapshot models.PredictionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		metrics.RecordSnapshotLookup(redisBackend, "error")
		return nil, false, fmt.Errorf("unmarshaling snapshot %s: %w", date, err)
	}

	metrics.RecordSnapshotLookup(redisBackend, "hit")
	return &snapshot, true, nil
}

// Put stores snapshot under its date, replacing any earlier entry
func (s *RedisSnapshotStore) Put(ctx context.Context, snapshot *models.PredictionSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		metrics.RecordSnapshotWrite(redisBackend, "failure", 0)
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.Key(snapshot.Date), data, s.ttl).Err(); err != nil {
		metrics.RecordSnapshotWrite(redisBackend, "failure", 0)
		return fmt.Errorf("writing snapshot %s: %w", snapshot.Date, err)
	}

	metrics.RecordSnapshotWrite(redisBackend, "success", float64(snapshot.GeneratedAt.Unix()))
	return nil
}

// Ping checks the connection
func (s *RedisSnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
