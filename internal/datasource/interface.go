// Package datasource loads historical bet records from files, HTTP endpoints
// and the database.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/wager-analyst/internal/models"
)

// RecordSource defines the interface for fetching bet records
type RecordSource interface {
	// FetchRecords returns every normalised record the source holds
	FetchRecords(ctx context.Context) ([]models.BetRecord, error)

	// Name returns the name of the source
	Name() string
}

// SourceError represents errors from record source operations
type SourceError struct {
	Source  string // Source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string
	Err     error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the code so callers can use errors.Is
func (e SourceError) Is(target error) bool {
	sentinel, ok := codeSentinels[e.Code]
	return ok && target == sentinel
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

var codeSentinels = map[string]error{
	ErrCodeRateLimitExceeded:    ErrRateLimitExceeded,
	ErrCodeAuthenticationFailed: ErrAuthenticationFailed,
	ErrCodeNotFound:             ErrNotFound,
	ErrCodeInvalidData:          ErrInvalidData,
	ErrCodeNetworkError:         ErrNetworkError,
	ErrCodeServerError:          ErrServerError,
}

// NewSourceError creates a new source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
