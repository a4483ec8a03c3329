package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. WAGER_ANALYST_APP_LOG_LEVEL
	EnvPrefix         = "WAGER_ANALYST"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
// The file must exist.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return unmarshal(v)
}

// LoadWithDefaults loads configuration like Load but tolerates a missing file,
// relying on defaults and environment variables instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "wager-analyst")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "wager_analyst")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 1)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "wager-analyst:snapshot:")

	v.SetDefault("source.type", "file")
	v.SetDefault("source.path", "data/bets.json")
	v.SetDefault("source.url", "")
	v.SetDefault("source.format", "")
	v.SetDefault("source.auth_token", "")
	v.SetDefault("source.timeout_seconds", 30)
	v.SetDefault("source.max_retries", 3)
	v.SetDefault("source.rate_limit", 2.0)

	v.SetDefault("analytics.confidence_level", 0.95)
	v.SetDefault("analytics.expected_win_rate", 0.5)
	v.SetDefault("analytics.top_n", 70)
	v.SetDefault("analytics.bet_type_top_n", 100)
	v.SetDefault("analytics.min_bets", 2)
	v.SetDefault("analytics.min_bet_type_bets", 3)
	v.SetDefault("analytics.recent_window", 10)
	v.SetDefault("analytics.recommendation_top_n", 10)

	v.SetDefault("monte_carlo.simulations", 10000)
	v.SetDefault("monte_carlo.bets_per_simulation", 100)
	v.SetDefault("monte_carlo.workers", 0)
	v.SetDefault("monte_carlo.seed", 0)
	v.SetDefault("monte_carlo.fallback_odds", 2.0)

	v.SetDefault("patterns.min_support", 3)
	v.SetDefault("patterns.slip_min_support", 2)
	v.SetDefault("patterns.success_threshold", 70.0)
	v.SetDefault("patterns.failure_threshold", 50.0)

	v.SetDefault("risk.low_score", 4)
	v.SetDefault("risk.medium_score", 1)
	v.SetDefault("risk.min_settled", 10)

	v.SetDefault("snapshot.backend", "memory")
	v.SetDefault("snapshot.ttl_hours", 48)
	v.SetDefault("snapshot.schedule", "0 6 * * *")
	v.SetDefault("snapshot.timezone", "UTC")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("secrets.enabled", false)
	v.SetDefault("secrets.region", "")
	v.SetDefault("secrets.secret_name", "")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
