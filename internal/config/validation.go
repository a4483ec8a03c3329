package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("confidencelevel", validateConfidenceLevel)
	_ = v.RegisterValidation("snapshotbackend", validateSnapshotBackend)
	_ = v.RegisterValidation("cronspec", validateCronSpec)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateConfidenceLevel accepts only levels with a tabulated z-score
func validateConfidenceLevel(fl validator.FieldLevel) bool {
	switch fl.Field().Float() {
	case 0.90, 0.95, 0.99:
		return true
	default:
		return false
	}
}

func validateSnapshotBackend(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "memory", "redis", "postgres":
		return true
	default:
		return false
	}
}

func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Patterns.FailureThreshold > cfg.Patterns.SuccessThreshold {
		return fmt.Errorf("patterns failure_threshold (%.1f) cannot exceed success_threshold (%.1f)",
			cfg.Patterns.FailureThreshold, cfg.Patterns.SuccessThreshold)
	}

	if cfg.Analytics.BetTypeTopN < cfg.Analytics.TopN {
		return fmt.Errorf("analytics bet_type_top_n cannot be smaller than top_n")
	}

	if cfg.Risk.LowScore <= cfg.Risk.MediumScore {
		return fmt.Errorf("risk low_score must be greater than medium_score")
	}

	if cfg.Database.MinConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("database min_connections cannot exceed max_connections")
	}

	switch cfg.Source.Type {
	case "file":
		if cfg.Source.Path == "" {
			return fmt.Errorf("source type 'file' requires source.path")
		}
	case "http":
		if cfg.Source.URL == "" {
			return fmt.Errorf("source type 'http' requires source.url")
		}
	case "postgres":
		if cfg.Database.Host == "" {
			return fmt.Errorf("source type 'postgres' requires database.host")
		}
	}

	switch cfg.Snapshot.Backend {
	case "postgres":
		if cfg.Database.Host == "" {
			return fmt.Errorf("snapshot backend 'postgres' requires database.host")
		}
	case "redis":
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("snapshot backend 'redis' requires redis.addr")
		}
	}

	if _, err := cfg.Location(); err != nil {
		return err
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "confidencelevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: 0.90, 0.95, 0.99, got '%v'\n", field, value)
		case "snapshotbackend":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: memory, redis, postgres\n", field)
		case "cronspec":
			errMsg += fmt.Sprintf("- Field '%s' must be a standard cron expression, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		usesPostgres := cfg.Source.Type == "postgres" || cfg.Snapshot.Backend == "postgres"
		if usesPostgres && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}
		if usesPostgres && isTestCredential(cfg.Database.User) {
			return fmt.Errorf("production environment should not use test database credentials")
		}
		if cfg.MonteCarlo.Seed != 0 {
			return fmt.Errorf("a fixed monte_carlo seed is not allowed in production")
		}
	}
	return nil
}

var testCredentialPattern = regexp.MustCompile(`(?i)test|demo|example|placeholder|YOUR_`)

func isTestCredential(credential string) bool {
	return testCredentialPattern.MatchString(credential)
}
