package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/wager-analyst/internal/analytics"
	"github.com/yourusername/wager-analyst/internal/models"
)

// Match is a team that survived every row and aggregate predicate
type Match struct {
	Team    string           `json:"team"`
	League  string           `json:"league"`
	Country string           `json:"country"`
	Stat    *models.TeamStat `json:"stat,omitempty"`
}

// Execute runs the query over records and the team statistics built from them
func (q Query) Execute(records []models.BetRecord, stats []models.TeamStat) []Match {
	return Execute(q.filters, records, stats)
}

// Execute keeps records passing every row predicate, projects them onto
// distinct (team, league, country) triples and drops triples that fail an
// aggregate predicate. Teams without a TeamStat are dropped whenever any
// filter carries an aggregate predicate. Results are ordered by team, then
// country, then league.
func Execute(filters []Filter, records []models.BetRecord, stats []models.TeamStat) []Match {
	index := analytics.IndexTeams(stats)
	aggregate := false
	for _, f := range filters {
		if f.HasAggregate() {
			aggregate = true
			break
		}
	}

	seen := make(map[models.TeamKey]struct{})
	matches := make([]Match, 0)
	for _, r := range records {
		if !matchesAll(filters, r) {
			continue
		}
		team, ok := analytics.ResolveTeam(r)
		if !ok {
			continue
		}
		key := models.TeamKey{Team: team, Country: r.Country, League: r.League}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		match := Match{Team: team, League: r.League, Country: r.Country}
		stat, found := index[key]
		if found {
			match.Stat = &stat
		}
		if aggregate && (!found || !passesAggregates(filters, stat)) {
			continue
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Team != matches[j].Team {
			return matches[i].Team < matches[j].Team
		}
		if matches[i].Country != matches[j].Country {
			return matches[i].Country < matches[j].Country
		}
		return matches[i].League < matches[j].League
	})
	return matches
}

func matchesAll(filters []Filter, r models.BetRecord) bool {
	for _, f := range filters {
		if !f.MatchRecord(r) {
			return false
		}
	}
	return true
}

func passesAggregates(filters []Filter, stat models.TeamStat) bool {
	for _, f := range filters {
		if !f.HasAggregate() {
			continue
		}
		value, ok := resolveMetric(f, stat)
		if !ok || !compareMetric(f.Operator, value, f.MetricValue) {
			return false
		}
	}
	return true
}

// resolveMetric reads the metric from the team's overall record, or from the
// bet-type breakdown entries matching the filter value when the filter is on
// BET_TYPE.
func resolveMetric(f Filter, stat models.TeamStat) (float64, bool) {
	if f.Field == FieldBetType && strings.TrimSpace(f.Value) != "" {
		read, ok := breakdownMetrics[f.Metric]
		if !ok {
			return 0, false
		}
		sub, found := analytics.MatchBetTypeRecord(stat, f.Value)
		if !found {
			return 0, false
		}
		return read(sub), true
	}
	read, ok := teamMetrics[f.Metric]
	if !ok {
		return 0, false
	}
	return read(stat), true
}

func compareMetric(op Operator, value float64, metricValue string) bool {
	want := strings.TrimSpace(metricValue)
	if op == OpContains {
		return containsFold(strconv.FormatFloat(value, 'f', -1, 64), want)
	}
	target, err := strconv.ParseFloat(want, 64)
	if err != nil {
		return false
	}
	return applyNumeric(op, value, target)
}
