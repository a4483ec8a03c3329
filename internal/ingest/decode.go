package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yourusername/wager-analyst/internal/models"
)

// DecodeJSON reads a JSON array of rows
func DecodeJSON(r io.Reader) ([]RawRow, error) {
	var rows []RawRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return rows, nil
}

// columnAliases maps normalised header names onto RawRow setters
var columnAliases = map[string]func(*RawRow, Cell){
	"date":          func(r *RawRow, c Cell) { r.Date = c },
	"country":       func(r *RawRow, c Cell) { r.Country = c },
	"league":        func(r *RawRow, c Cell) { r.League = c },
	"home_team":     func(r *RawRow, c Cell) { r.HomeTeam = c },
	"home":          func(r *RawRow, c Cell) { r.HomeTeam = c },
	"away_team":     func(r *RawRow, c Cell) { r.AwayTeam = c },
	"away":          func(r *RawRow, c Cell) { r.AwayTeam = c },
	"bet_type":      func(r *RawRow, c Cell) { r.BetType = c },
	"bet_selection": func(r *RawRow, c Cell) { r.BetSelection = c },
	"selection":     func(r *RawRow, c Cell) { r.BetSelection = c },
	"team_included": func(r *RawRow, c Cell) { r.TeamIncluded = c },
	"odds_home":     func(r *RawRow, c Cell) { r.OddsHome = c },
	"odds_away":     func(r *RawRow, c Cell) { r.OddsAway = c },
	"odds_draw":     func(r *RawRow, c Cell) { r.OddsDraw = c },
	"home_score":    func(r *RawRow, c Cell) { r.HomeScore = c },
	"away_score":    func(r *RawRow, c Cell) { r.AwayScore = c },
	"home_position": func(r *RawRow, c Cell) { r.HomePosition = c },
	"away_position": func(r *RawRow, c Cell) { r.AwayPosition = c },
	"result":        func(r *RawRow, c Cell) { r.Result = c },
	"bet_id":        func(r *RawRow, c Cell) { r.BetID = c },
	"slip_id":       func(r *RawRow, c Cell) { r.BetID = c },
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// DecodeCSV reads a spreadsheet export whose first line names the columns.
// Unknown columns are ignored; a header without a date column is rejected.
func DecodeCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	setters := make([]func(*RawRow, Cell), len(header))
	hasDate := false
	for i, h := range header {
		name := normalizeHeader(h)
		setters[i] = columnAliases[name]
		hasDate = hasDate || name == "date"
	}
	if !hasDate {
		return nil, fmt.Errorf("%w: csv header has no date column", models.ErrInvalidInput)
	}

	rows := make([]RawRow, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(rows)+2, err)
		}
		var row RawRow
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, Cell(value))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
