package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wager-analyst/internal/config"
	"github.com/yourusername/wager-analyst/internal/ingest"
)

// SourceType represents the type of record source
type SourceType string

const (
	FileSourceType     SourceType = "file"
	HTTPSourceType     SourceType = "http"
	PostgresSourceType SourceType = "postgres"
)

// Factory creates RecordSource implementations based on configuration
type Factory struct {
	logger     *logrus.Logger
	config     config.SourceConfig
	normalizer *ingest.Normalizer
	postgres   RecordSource
}

// NewFactory creates a new record source factory. Dates are read in loc.
func NewFactory(cfg config.SourceConfig, loc *time.Location, logger *logrus.Logger) *Factory {
	return &Factory{
		logger:     logger,
		config:     cfg,
		normalizer: ingest.NewNormalizer(loc),
	}
}

// WithPostgres registers the database-backed source used for the postgres type
func (f *Factory) WithPostgres(src RecordSource) *Factory {
	f.postgres = src
	return f
}

// Create builds the configured source
func (f *Factory) Create() (RecordSource, error) {
	switch SourceType(f.config.Type) {
	case FileSourceType:
		if f.config.Path == "" {
			return nil, fmt.Errorf("file source requires a path")
		}
		return NewFileRecordSource(f.config.Path, Format(f.config.Format), f.normalizer, f.logger), nil

	case HTTPSourceType:
		if f.config.URL == "" {
			return nil, fmt.Errorf("http source requires a url")
		}
		return NewHTTPRecordSource(f.newHTTPClient(), f.config.URL, f.config.AuthToken,
			Format(f.config.Format), f.normalizer, f.logger), nil

	case PostgresSourceType:
		if f.postgres == nil {
			return nil, fmt.Errorf("postgres source requires a database connection")
		}
		return f.postgres, nil

	default:
		return nil, fmt.Errorf("unknown record source type: %s", f.config.Type)
	}
}

func (f *Factory) newHTTPClient() *RateLimitedHTTPClient {
	httpCfg := DefaultHTTPClientConfig()
	if f.config.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(f.config.TimeoutSeconds) * time.Second
	}
	httpCfg.MaxRetries = f.config.MaxRetries
	httpCfg.RateLimit = f.config.RateLimit
	return NewRateLimitedHTTPClient(httpCfg, f.logger)
}
