// Package query evaluates ad-hoc row and aggregate predicates over bet records
// and team statistics.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/wager-analyst/internal/models"
)

// Field identifies a BetRecord column a filter can test
type Field string

const (
	FieldCountry      Field = "COUNTRY"
	FieldLeague       Field = "LEAGUE"
	FieldHomeTeam     Field = "HOME_TEAM"
	FieldAwayTeam     Field = "AWAY_TEAM"
	FieldTeamIncluded Field = "TEAM_INCLUDED"
	FieldBetType      Field = "BET_TYPE"
	FieldBetSelection Field = "BET_SELECTION"
	FieldResult       Field = "RESULT"
	FieldDate         Field = "DATE"
	FieldBetID        Field = "BET_ID"
	FieldOddsHome     Field = "ODDS_HOME"
	FieldOddsAway     Field = "ODDS_AWAY"
	FieldOddsDraw     Field = "ODDS_DRAW"
	FieldHomeScore    Field = "HOME_SCORE"
	FieldAwayScore    Field = "AWAY_SCORE"
	FieldHomePosition Field = "HOME_POSITION"
	FieldAwayPosition Field = "AWAY_POSITION"
)

// Kind tags how a field's values compare
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// Value is a field value tagged with its kind. A numeric value that is absent
// has Valid set to false.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Valid  bool
}

// String renders the value for substring matching
func (v Value) String() string {
	if v.Kind == KindText {
		return v.Text
	}
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

func text(s string) Value {
	return Value{Kind: KindText, Text: s, Valid: true}
}

func floatValue(v *float64) Value {
	if v == nil {
		return Value{Kind: KindNumeric}
	}
	return Value{Kind: KindNumeric, Number: *v, Valid: true}
}

func intValue(v *int) Value {
	if v == nil {
		return Value{Kind: KindNumeric}
	}
	return Value{Kind: KindNumeric, Number: float64(*v), Valid: true}
}

type accessor struct {
	kind    Kind
	extract func(models.BetRecord) Value
}

var fieldTable = map[Field]accessor{
	FieldCountry:      {KindText, func(r models.BetRecord) Value { return text(r.Country) }},
	FieldLeague:       {KindText, func(r models.BetRecord) Value { return text(r.League) }},
	FieldHomeTeam:     {KindText, func(r models.BetRecord) Value { return text(r.HomeTeam) }},
	FieldAwayTeam:     {KindText, func(r models.BetRecord) Value { return text(r.AwayTeam) }},
	FieldTeamIncluded: {KindText, func(r models.BetRecord) Value { return text(r.TeamIncluded) }},
	FieldBetType:      {KindText, func(r models.BetRecord) Value { return text(r.BetType) }},
	FieldBetSelection: {KindText, func(r models.BetRecord) Value { return text(r.BetSelection) }},
	FieldResult:       {KindText, func(r models.BetRecord) Value { return text(string(r.Result)) }},
	FieldDate:         {KindText, func(r models.BetRecord) Value { return text(r.DateKey()) }},
	FieldBetID:        {KindText, func(r models.BetRecord) Value { return text(r.BetID) }},
	FieldOddsHome:     {KindNumeric, func(r models.BetRecord) Value { return floatValue(r.OddsHome) }},
	FieldOddsAway:     {KindNumeric, func(r models.BetRecord) Value { return floatValue(r.OddsAway) }},
	FieldOddsDraw:     {KindNumeric, func(r models.BetRecord) Value { return floatValue(r.OddsDraw) }},
	FieldHomeScore:    {KindNumeric, func(r models.BetRecord) Value { return intValue(r.HomeScore) }},
	FieldAwayScore:    {KindNumeric, func(r models.BetRecord) Value { return intValue(r.AwayScore) }},
	FieldHomePosition: {KindNumeric, func(r models.BetRecord) Value { return intValue(r.HomePosition) }},
	FieldAwayPosition: {KindNumeric, func(r models.BetRecord) Value { return intValue(r.AwayPosition) }},
}

// ParseField resolves a field identifier, ignoring case and surrounding space
func ParseField(name string) (Field, error) {
	field := Field(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := fieldTable[field]; !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownField, name)
	}
	return field, nil
}

// Kind returns whether the field compares numerically or as text
func (f Field) Kind() Kind {
	return fieldTable[f].kind
}

// Extract reads the field from a record
func (f Field) Extract(r models.BetRecord) Value {
	acc, ok := fieldTable[f]
	if !ok {
		return Value{}
	}
	return acc.extract(r)
}

// Fields lists every accepted field identifier, sorted
func Fields() []Field {
	out := make([]Field, 0, len(fieldTable))
	for f := range fieldTable {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Metric names an aggregate read from a TeamStat or a bet-type breakdown
type Metric string

const (
	MetricTotalBets       Metric = "total_bets"
	MetricWins            Metric = "wins"
	MetricLosses          Metric = "losses"
	MetricPending         Metric = "pending"
	MetricWinRate         Metric = "win_rate"
	MetricRecentWinRate   Metric = "recent_win_rate"
	MetricCompositeScore  Metric = "composite_score"
	MetricAvgOdds         Metric = "avg_odds"
	MetricTotalWithResult Metric = "total_with_result"
)

var teamMetrics = map[Metric]func(models.TeamStat) float64{
	MetricTotalBets:       func(s models.TeamStat) float64 { return float64(s.TotalBets) },
	MetricWins:            func(s models.TeamStat) float64 { return float64(s.Wins) },
	MetricLosses:          func(s models.TeamStat) float64 { return float64(s.Losses) },
	MetricPending:         func(s models.TeamStat) float64 { return float64(s.Pending) },
	MetricWinRate:         func(s models.TeamStat) float64 { return s.WinRate },
	MetricRecentWinRate:   func(s models.TeamStat) float64 { return s.RecentWinRate },
	MetricCompositeScore:  func(s models.TeamStat) float64 { return s.CompositeScore },
	MetricAvgOdds:         func(s models.TeamStat) float64 { return s.AvgOdds },
	MetricTotalWithResult: func(s models.TeamStat) float64 { return float64(s.Settled()) },
}

// Breakdown entries only track settled bets, so total_bets reads the settled count.
var breakdownMetrics = map[Metric]func(models.BetTypeStat) float64{
	MetricTotalBets:       func(s models.BetTypeStat) float64 { return float64(s.TotalWithResult) },
	MetricTotalWithResult: func(s models.BetTypeStat) float64 { return float64(s.TotalWithResult) },
	MetricWins:            func(s models.BetTypeStat) float64 { return float64(s.Wins) },
	MetricLosses:          func(s models.BetTypeStat) float64 { return float64(s.Losses) },
	MetricWinRate:         func(s models.BetTypeStat) float64 { return s.WinRate },
}

// ParseMetric resolves a metric name, ignoring case
func ParseMetric(name string) (Metric, error) {
	metric := Metric(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := teamMetrics[metric]; !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownMetric, name)
	}
	return metric, nil
}

// Metrics lists every accepted metric name, sorted
func Metrics() []Metric {
	out := make([]Metric, 0, len(teamMetrics))
	for m := range teamMetrics {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Operator compares a resolved metric with a filter's metric value
type Operator string

const (
	OpEquals      Operator = "equals"
	OpGreaterThan Operator = "greaterThan"
	OpLessThan    Operator = "lessThan"
	OpContains    Operator = "contains"
)

var operators = map[string]Operator{
	"equals":      OpEquals,
	"greaterthan": OpGreaterThan,
	"lessthan":    OpLessThan,
	"contains":    OpContains,
}

// ParseOperator resolves an operator name, ignoring case
func ParseOperator(name string) (Operator, error) {
	op, ok := operators[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownOperator, name)
	}
	return op, nil
}
