package analytics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yourusername/wager-analyst/internal/models"
)

// DefaultRecentWindow is the number of most recent bets in the form window
const DefaultRecentWindow = 10

// AggregationConfig configures entity aggregation
type AggregationConfig struct {
	RecentWindow int
}

// DefaultAggregationConfig returns the standard aggregation settings
func DefaultAggregationConfig() AggregationConfig {
	return AggregationConfig{RecentWindow: DefaultRecentWindow}
}

var pseudoTeamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(over|under)\s*\d+(\.\d+)?`),
	// whole-name selection codes: 1X2 outcomes, double chance pairs, BTTS answers
	regexp.MustCompile(`^(btts|gg|ng|yes|no|draw|x|1x|x2|12|1|2)$`),
	regexp.MustCompile(`both teams`),
	regexp.MustCompile(`double chance`),
	regexp.MustCompile(`\bgoals?\b`),
}

// IsPseudoTeam reports whether a name is a bet-type artifact rather than a team
func IsPseudoTeam(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return true
	}
	for _, pattern := range pseudoTeamPatterns {
		if pattern.MatchString(n) {
			return true
		}
	}
	return false
}

// ResolveTeam returns the team a record is attributed to: team_included, then
// home_team, then away_team. A record whose resolved name is a pseudo-team is
// not attributed to any team.
func ResolveTeam(record models.BetRecord) (string, bool) {
	for _, candidate := range []string{record.TeamIncluded, record.HomeTeam, record.AwayTeam} {
		name := strings.TrimSpace(candidate)
		if name == "" {
			continue
		}
		if IsPseudoTeam(name) {
			return "", false
		}
		return name, true
	}
	return "", false
}

// AggregateTeams builds one TeamStat per (team, country, league) in first-seen order
func AggregateTeams(records []models.BetRecord, cfg AggregationConfig) []models.TeamStat {
	groups := newGroupSet()
	for _, record := range records {
		team, ok := ResolveTeam(record)
		if !ok {
			continue
		}
		key := models.TeamKey{Team: team, Country: record.Country, League: record.League}
		groups.get(key).add(record)
	}

	stats := make([]models.TeamStat, 0, len(groups.order))
	for _, key := range groups.order {
		entity := groups.items[key].finalize(cfg.window())
		k := key.(models.TeamKey)
		stat := models.TeamStat{
			Team:       k.Team,
			Country:    k.Country,
			League:     k.League,
			EntityStat: entity,
		}
		stat.CompositeScore = CompositeScore(stat.WinRate, stat.Wins, stat.RecentWinRate)
		stats = append(stats, stat)
	}
	return stats
}

type leagueKey struct {
	league  string
	country string
}

// AggregateLeagues builds one LeagueStat per (league, country). Records without a league are skipped.
func AggregateLeagues(records []models.BetRecord, cfg AggregationConfig) []models.LeagueStat {
	groups := newGroupSet()
	for _, record := range records {
		if strings.TrimSpace(record.League) == "" {
			continue
		}
		groups.get(leagueKey{league: record.League, country: record.Country}).add(record)
	}

	stats := make([]models.LeagueStat, 0, len(groups.order))
	for _, key := range groups.order {
		k := key.(leagueKey)
		stats = append(stats, models.LeagueStat{
			League:     k.league,
			Country:    k.country,
			EntityStat: groups.items[key].finalize(cfg.window()),
		})
	}
	return stats
}

// AggregateCountries builds one CountryStat per country. Records without a country are skipped.
func AggregateCountries(records []models.BetRecord, cfg AggregationConfig) []models.CountryStat {
	groups := newGroupSet()
	for _, record := range records {
		if strings.TrimSpace(record.Country) == "" {
			continue
		}
		groups.get(record.Country).add(record)
	}

	stats := make([]models.CountryStat, 0, len(groups.order))
	for _, key := range groups.order {
		stats = append(stats, models.CountryStat{
			Country:    key.(string),
			EntityStat: groups.items[key].finalize(cfg.window()),
		})
	}
	return stats
}

// IndexTeams maps each TeamStat by its key
func IndexTeams(stats []models.TeamStat) map[models.TeamKey]models.TeamStat {
	index := make(map[models.TeamKey]models.TeamStat, len(stats))
	for _, stat := range stats {
		index[stat.Key()] = stat
	}
	return index
}

func (c AggregationConfig) window() int {
	if c.RecentWindow <= 0 {
		return DefaultRecentWindow
	}
	return c.RecentWindow
}

type groupSet struct {
	order []any
	items map[any]*accumulator
}

func newGroupSet() *groupSet {
	return &groupSet{items: make(map[any]*accumulator)}
}

func (g *groupSet) get(key any) *accumulator {
	acc, ok := g.items[key]
	if !ok {
		acc = &accumulator{}
		g.items[key] = acc
		g.order = append(g.order, key)
	}
	return acc
}

type accumulator struct {
	records []models.BetRecord
}

func (a *accumulator) add(record models.BetRecord) {
	a.records = append(a.records, record)
}

func (a *accumulator) finalize(window int) models.EntityStat {
	stat := models.EntityStat{BetTypes: make(map[string]*models.BetTypeStat)}
	oddsSum := 0.0
	oddsCount := 0

	for _, record := range a.records {
		stat.TotalBets++
		outcome := record.Result.Outcome()
		switch outcome {
		case models.OutcomeWin:
			stat.Wins++
		case models.OutcomeLoss:
			stat.Losses++
		default:
			stat.Pending++
		}

		if outcome != models.OutcomePending {
			breakdown, ok := stat.BetTypes[record.BetType]
			if !ok {
				breakdown = &models.BetTypeStat{}
				stat.BetTypes[record.BetType] = breakdown
			}
			breakdown.TotalWithResult++
			if outcome == models.OutcomeWin {
				breakdown.Wins++
			} else {
				breakdown.Losses++
			}
		}

		if odds := record.BackedOdds(); odds > 0 {
			oddsSum += odds
			oddsCount++
		}
	}

	for _, breakdown := range stat.BetTypes {
		breakdown.WinRate = models.Rate(breakdown.Wins, breakdown.TotalWithResult)
	}
	stat.WinRate = models.Rate(stat.Wins, stat.Wins+stat.Losses)
	if oddsCount > 0 {
		stat.AvgOdds = oddsSum / float64(oddsCount)
	}

	recent := append([]models.BetRecord(nil), a.records...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > window {
		recent = recent[:window]
	}
	stat.RecentBets = len(recent)
	for _, record := range recent {
		switch record.Result.Outcome() {
		case models.OutcomeWin:
			stat.RecentWins++
		case models.OutcomeLoss:
			stat.RecentLosses++
		}
	}
	stat.RecentWinRate = models.Rate(stat.RecentWins, stat.RecentWins+stat.RecentLosses)

	return stat
}
