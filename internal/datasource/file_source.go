package datasource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wager-analyst/internal/ingest"
	"github.com/yourusername/wager-analyst/internal/models"
)

// Format names an export encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const fileSourceName = "file"

// FileRecordSource reads a local JSON or CSV export
type FileRecordSource struct {
	path       string
	format     Format
	normalizer *ingest.Normalizer
	logger     *logrus.Entry
}

// NewFileRecordSource creates a source reading path. An empty format is
// inferred from the file extension.
func NewFileRecordSource(path string, format Format, normalizer *ingest.Normalizer, logger *logrus.Logger) *FileRecordSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if format == "" {
		format = formatFromPath(path)
	}
	return &FileRecordSource{
		path:       path,
		format:     format,
		normalizer: normalizer,
		logger:     logger.WithField("source", fileSourceName),
	}
}

// Name returns the source name
func (s *FileRecordSource) Name() string {
	return fileSourceName
}

// FetchRecords reads and normalises the file
func (s *FileRecordSource) FetchRecords(ctx context.Context) ([]models.BetRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewSourceError(fileSourceName, ErrCodeNotFound, s.path, err)
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := decodeRows(f, s.format)
	if err != nil {
		return nil, NewSourceError(fileSourceName, ErrCodeInvalidData, s.path, err)
	}

	records := s.normalizer.NormalizeAll(rows)
	s.logger.WithFields(logrus.Fields{
		"path":    s.path,
		"format":  s.format,
		"records": len(records),
	}).Info("Loaded records")
	return records, nil
}

func formatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

func decodeRows(r io.Reader, format Format) ([]ingest.RawRow, error) {
	switch format {
	case FormatCSV:
		return ingest.DecodeCSV(r)
	case FormatJSON, "":
		return ingest.DecodeJSON(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
