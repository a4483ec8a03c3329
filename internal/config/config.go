// Package config provides configuration management for the wager analyst.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Source     SourceConfig     `mapstructure:"source" validate:"required"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics" validate:"required"`
	MonteCarlo MonteCarloConfig `mapstructure:"monte_carlo" validate:"required"`
	Patterns   PatternsConfig   `mapstructure:"patterns" validate:"required"`
	Risk       RiskConfig       `mapstructure:"risk" validate:"required"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. It is only
// required when records or snapshots live in PostgreSQL.
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
	MinConnections int    `mapstructure:"min_connections" validate:"gte=0"`
}

// RedisConfig represents the redis snapshot store connection
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// SourceConfig selects where bet records are loaded from
type SourceConfig struct {
	Type           string  `mapstructure:"type" validate:"required,oneof=file http postgres"`
	Path           string  `mapstructure:"path"`
	URL            string  `mapstructure:"url" validate:"omitempty,url"`
	Format         string  `mapstructure:"format" validate:"omitempty,oneof=json csv"`
	AuthToken      string  `mapstructure:"auth_token"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// AnalyticsConfig holds ranking and confidence settings
type AnalyticsConfig struct {
	ConfidenceLevel    float64 `mapstructure:"confidence_level" validate:"required,confidencelevel"`
	ExpectedWinRate    float64 `mapstructure:"expected_win_rate" validate:"gt=0,lt=1"`
	TopN               int     `mapstructure:"top_n" validate:"required,gt=0"`
	BetTypeTopN        int     `mapstructure:"bet_type_top_n" validate:"required,gt=0"`
	MinBets            int     `mapstructure:"min_bets" validate:"required,gte=1"`
	MinBetTypeBets     int     `mapstructure:"min_bet_type_bets" validate:"required,gte=1"`
	RecentWindow       int     `mapstructure:"recent_window" validate:"required,gt=0"`
	RecommendationTopN int     `mapstructure:"recommendation_top_n" validate:"gte=0"`
}

// MonteCarloConfig holds simulator settings
type MonteCarloConfig struct {
	Simulations       int     `mapstructure:"simulations" validate:"required,gt=0"`
	BetsPerSimulation int     `mapstructure:"bets_per_simulation" validate:"required,gt=0"`
	Workers           int     `mapstructure:"workers" validate:"gte=0"`
	Seed              int64   `mapstructure:"seed"`
	FallbackOdds      float64 `mapstructure:"fallback_odds" validate:"gt=1"`
}

// PatternsConfig holds support floors and classification thresholds (0-100)
type PatternsConfig struct {
	MinSupport       int     `mapstructure:"min_support" validate:"required,gte=1"`
	SlipMinSupport   int     `mapstructure:"slip_min_support" validate:"required,gte=1"`
	SuccessThreshold float64 `mapstructure:"success_threshold" validate:"gt=0,lte=100"`
	FailureThreshold float64 `mapstructure:"failure_threshold" validate:"gte=0,lte=100"`
}

// RiskConfig holds the tier cut-offs of the risk policy
type RiskConfig struct {
	LowScore    int `mapstructure:"low_score"`
	MediumScore int `mapstructure:"medium_score"`
	MinSettled  int `mapstructure:"min_settled" validate:"gte=0"`
}

// SnapshotConfig selects the prediction snapshot store and schedule
type SnapshotConfig struct {
	Backend  string `mapstructure:"backend" validate:"required,snapshotbackend"`
	TTLHours int    `mapstructure:"ttl_hours" validate:"required,gt=0"`
	Schedule string `mapstructure:"schedule" validate:"required,cronspec"`
	Timezone string `mapstructure:"timezone"`
}

// MetricsConfig represents metrics and health server configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// SecretsConfig enables the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.Name,
		RawQuery: "sslmode=" + c.Database.SSLMode,
	}
	return u.String()
}

// SnapshotTTL returns the snapshot retention as a duration
func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.Snapshot.TTLHours) * time.Hour
}

// Location returns the time zone used to decide the snapshot calendar date
func (c *Config) Location() (*time.Location, error) {
	if c.Snapshot.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Snapshot.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot timezone %q: %w", c.Snapshot.Timezone, err)
	}
	return loc, nil
}
