// Package ingest converts loosely typed rows from spreadsheet exports and
// text columns into BetRecords.
package ingest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/wager-analyst/internal/models"
)

// Cell is a raw value that unmarshals from a JSON string, number, bool or null
type Cell string

// UnmarshalJSON accepts any scalar
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cell(s)
		return nil
	}
	*c = Cell(data)
	return nil
}

func (c Cell) trimmed() string {
	return strings.TrimSpace(string(c))
}

// RawRow is one unparsed wager line
type RawRow struct {
	Date         Cell `json:"date"`
	Country      Cell `json:"country"`
	League       Cell `json:"league"`
	HomeTeam     Cell `json:"home_team"`
	AwayTeam     Cell `json:"away_team"`
	BetType      Cell `json:"bet_type"`
	BetSelection Cell `json:"bet_selection"`
	TeamIncluded Cell `json:"team_included"`
	OddsHome     Cell `json:"odds_home"`
	OddsAway     Cell `json:"odds_away"`
	OddsDraw     Cell `json:"odds_draw"`
	HomeScore    Cell `json:"home_score"`
	AwayScore    Cell `json:"away_score"`
	HomePosition Cell `json:"home_position"`
	AwayPosition Cell `json:"away_position"`
	Result       Cell `json:"result"`
	BetID        Cell `json:"bet_id"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// spreadsheet serial day zero
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var resultAliases = map[string]models.Result{
	"W":       models.ResultWin,
	"WIN":     models.ResultWin,
	"WON":     models.ResultWin,
	"L":       models.ResultLoss,
	"LOSS":    models.ResultLoss,
	"LOST":    models.ResultLoss,
	"LOSE":    models.ResultLoss,
	"D":       models.ResultDraw,
	"DRAW":    models.ResultDraw,
	"P":       models.ResultPending,
	"PENDING": models.ResultPending,
	"":        models.ResultPending,
	"UNKNOWN": models.ResultUnknown,
}

// Normalizer converts RawRows into BetRecords. Malformed numerics become nil
// and malformed dates the zero time; normalisation never fails.
type Normalizer struct {
	location *time.Location
}

// NewNormalizer creates a normalizer that reads dates in loc (UTC when nil)
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{location: loc}
}

// NormalizeAll converts rows in order
func (n *Normalizer) NormalizeAll(rows []RawRow) []models.BetRecord {
	records := make([]models.BetRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, n.Normalize(row))
	}
	return records
}

// Normalize converts a single row
func (n *Normalizer) Normalize(row RawRow) models.BetRecord {
	return models.BetRecord{
		Date:         n.ParseDate(row.Date.trimmed()),
		Country:      row.Country.trimmed(),
		League:       row.League.trimmed(),
		HomeTeam:     row.HomeTeam.trimmed(),
		AwayTeam:     row.AwayTeam.trimmed(),
		BetType:      row.BetType.trimmed(),
		BetSelection: row.BetSelection.trimmed(),
		TeamIncluded: row.TeamIncluded.trimmed(),
		OddsHome:     ParseOdds(row.OddsHome.trimmed()),
		OddsAway:     ParseOdds(row.OddsAway.trimmed()),
		OddsDraw:     ParseOdds(row.OddsDraw.trimmed()),
		HomeScore:    ParseInt(row.HomeScore.trimmed()),
		AwayScore:    ParseInt(row.AwayScore.trimmed()),
		HomePosition: ParseInt(row.HomePosition.trimmed()),
		AwayPosition: ParseInt(row.AwayPosition.trimmed()),
		Result:       NormalizeResult(row.Result.trimmed()),
		BetID:        row.BetID.trimmed(),
	}
}

// ParseDate tries each supported layout, then a spreadsheet serial day number.
// The result is truncated to the calendar date.
func (n *Normalizer) ParseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, n.location); err == nil {
			return calendarDate(t)
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		return serialEpoch.AddDate(0, 0, int(serial))
	}
	return time.Time{}
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseOdds reads decimal ("2.50", "2,50") or fractional ("6/4") odds and returns
// decimal odds rounded to three places. Anything unparseable or non-positive is nil.
func ParseOdds(s string) *float64 {
	if s == "" {
		return nil
	}
	var odds decimal.Decimal
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, errN := decimal.NewFromString(strings.TrimSpace(num))
		d, errD := decimal.NewFromString(strings.TrimSpace(den))
		if errN != nil || errD != nil || !d.IsPositive() {
			return nil
		}
		odds = n.Div(d).Add(decimal.NewFromInt(1))
	} else {
		parsed, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
		if err != nil {
			return nil
		}
		odds = parsed
	}
	if !odds.IsPositive() {
		return nil
	}
	v := odds.Round(3).InexactFloat64()
	return &v
}

// ParseInt reads an integer, accepting a whole-number float such as "2.0"
func ParseInt(s string) *int {
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return nil
	}
	v := int(d.IntPart())
	return &v
}

// NormalizeResult maps common result spellings onto the canonical values.
// Unrecognised text is kept as-is so substring matching can still classify it.
func NormalizeResult(s string) models.Result {
	if r, ok := resultAliases[strings.ToUpper(s)]; ok {
		return r
	}
	return models.Result(s)
}
