package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/wager-analyst/internal/cache"
	"github.com/yourusername/wager-analyst/internal/database"
	"github.com/yourusername/wager-analyst/internal/datasource"
	"github.com/yourusername/wager-analyst/internal/health"
	"github.com/yourusername/wager-analyst/internal/logger"
	"github.com/yourusername/wager-analyst/internal/repository"
	"github.com/yourusername/wager-analyst/internal/service"
)

// app holds the wired dependencies of one command invocation
type app struct {
	db       *database.DB
	repos    *repository.Repositories
	redis    *redis.Client
	source   datasource.RecordSource
	store    service.SnapshotStore
	analysis *service.AnalysisService
	checks   map[string]health.Pinger
}

type appOptions struct {
	requireDatabase bool
	withStore       bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{checks: make(map[string]health.Pinger)}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	needsDB := opts.requireDatabase ||
		cfg.Source.Type == string(datasource.PostgresSourceType) ||
		(opts.withStore && cfg.Snapshot.Backend == "postgres")
	if needsDB {
		if err := a.openDatabase(ctx); err != nil {
			return nil, err
		}
	}

	factory := datasource.NewFactory(cfg.Source, loc, log)
	if a.repos != nil {
		factory.WithPostgres(a.repos.BetRecord)
	}
	if a.source, err = factory.Create(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create record source: %w", err)
	}

	if opts.withStore {
		if a.store, err = a.openStore(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	settings, err := service.SettingsFromConfig(cfg, logger.NewAuditLogger(log))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.analysis = service.NewAnalysisService(a.source, a.store, settings, log)
	return a, nil
}

func (a *app) openDatabase(ctx context.Context) error {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	a.db = db
	a.repos = repos
	a.checks["database"] = db
	return nil
}

func (a *app) openStore(ctx context.Context) (service.SnapshotStore, error) {
	switch cfg.Snapshot.Backend {
	case "memory":
		return cache.NewMemorySnapshotStore(cfg.SnapshotTTL()), nil

	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.redis = client
		store := cache.NewRedisSnapshotStore(client, cfg.Redis.KeyPrefix, cfg.SnapshotTTL())
		a.checks["redis"] = store
		return store, nil

	case "postgres":
		return a.repos.Snapshot, nil

	default:
		return nil, fmt.Errorf("unknown snapshot backend: %s", cfg.Snapshot.Backend)
	}
}

// Close releases every open connection
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.WithError(err).Warn("Failed to close redis client")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
