// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a stdout logger; ENVIRONMENT=production switches to JSON output
func NewLogger(logLevel string) *logrus.Logger {
	return New(os.Stdout, logLevel, os.Getenv("ENVIRONMENT"))
}

// New creates a logger writing to out at logLevel, falling back to info when the
// level does not parse.
func New(out io.Writer, logLevel, environment string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   environment == "development",
		})
	}

	return logger
}
