// Package patterns mines recurring combinations of side, bet type, league and
// country from settled bet records.
package patterns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/wager-analyst/internal/analytics"
	"github.com/yourusername/wager-analyst/internal/models"
)

// Config holds support floors and classification thresholds. Rates are 0-100.
type Config struct {
	MinSupport       int
	SlipMinSupport   int
	SuccessThreshold float64
	FailureThreshold float64
}

// DefaultConfig returns the standard mining settings
func DefaultConfig() Config {
	return Config{
		MinSupport:       3,
		SlipMinSupport:   2,
		SuccessThreshold: 70,
		FailureThreshold: 50,
	}
}

type template func(r models.BetRecord, side string) string

var templates = []template{
	func(r models.BetRecord, side string) string { return side + " + " + r.BetType },
	func(r models.BetRecord, _ string) string { return r.BetType + " + " + r.League },
	func(r models.BetRecord, side string) string { return side + " + " + r.League },
	func(r models.BetRecord, _ string) string { return r.BetType + " + " + r.Country },
	func(r models.BetRecord, side string) string { return side + " + " + r.BetType + " + " + r.League },
}

// Mine runs every pattern family over records
func Mine(records []models.BetRecord, cfg Config) models.PatternReport {
	success, failure := Combinations(records, cfg)
	return models.PatternReport{
		Success: success,
		Failure: failure,
		Team:    TeamPatterns(records, cfg),
		League:  LeaguePatterns(records, cfg),
		Betslip: BetslipPatterns(records, cfg),
	}
}

// Combinations applies the fixed templates and splits surviving keys into
// success patterns (highest rate first) and failure patterns (lowest first).
func Combinations(records []models.BetRecord, cfg Config) ([]models.Pattern, []models.Pattern) {
	tally := newCounter()
	for _, r := range records {
		if !r.Result.IsSettled() {
			continue
		}
		side := sideLabel(r)
		for _, tmpl := range templates {
			tally.add(tmpl(r, side), r.Result.Outcome() == models.OutcomeWin)
		}
	}

	success := make([]models.Pattern, 0)
	failure := make([]models.Pattern, 0)
	for _, p := range tally.patterns(cfg.MinSupport) {
		switch {
		case p.WinRate >= cfg.SuccessThreshold:
			success = append(success, p)
		case p.WinRate < cfg.FailureThreshold:
			failure = append(failure, p)
		}
	}
	sortByRate(success, true)
	sortByRate(failure, false)
	return success, failure
}

// TeamPatterns keys settled records by (team, bet type, side)
func TeamPatterns(records []models.BetRecord, cfg Config) []models.Pattern {
	tally := newCounter()
	for _, r := range records {
		if !r.Result.IsSettled() {
			continue
		}
		team, ok := analytics.ResolveTeam(r)
		if !ok {
			continue
		}
		tally.add(team+" + "+r.BetType+" + "+sideLabel(r), r.Result.Outcome() == models.OutcomeWin)
	}
	out := tally.patterns(cfg.MinSupport)
	sortByRate(out, true)
	return out
}

// LeaguePatterns keys settled records by (league, bet type)
func LeaguePatterns(records []models.BetRecord, cfg Config) []models.Pattern {
	tally := newCounter()
	for _, r := range records {
		if !r.Result.IsSettled() || strings.TrimSpace(r.League) == "" {
			continue
		}
		tally.add(r.League+" + "+r.BetType, r.Result.Outcome() == models.OutcomeWin)
	}
	out := tally.patterns(cfg.MinSupport)
	sortByRate(out, true)
	return out
}

// BetslipPatterns buckets slips by size, bet type variety and side mix. A slip
// whose settled win rate reaches the success threshold counts as a win, one
// below the failure threshold as a loss; every slip counts toward the total.
func BetslipPatterns(records []models.BetRecord, cfg Config) []models.Pattern {
	type slip struct {
		size     int
		betTypes map[string]struct{}
		home     bool
		away     bool
		wins     int
		settled  int
	}
	order := make([]string, 0)
	slips := make(map[string]*slip)
	for _, r := range records {
		if strings.TrimSpace(r.BetID) == "" {
			continue
		}
		s, ok := slips[r.BetID]
		if !ok {
			s = &slip{betTypes: make(map[string]struct{})}
			slips[r.BetID] = s
			order = append(order, r.BetID)
		}
		s.size++
		s.betTypes[strings.ToLower(strings.TrimSpace(r.BetType))] = struct{}{}
		switch r.BackedSide() {
		case models.SideHome:
			s.home = true
		case models.SideAway:
			s.away = true
		}
		if r.Result.IsSettled() {
			s.settled++
			if r.Result.Outcome() == models.OutcomeWin {
				s.wins++
			}
		}
	}

	tally := newCounter()
	for _, id := range order {
		s := slips[id]
		if s.settled == 0 {
			continue
		}
		key := fmt.Sprintf("%d bets + %d bet types + %s", s.size, len(s.betTypes), mixLabel(s.home && s.away))
		rate := models.Rate(s.wins, s.settled)
		switch {
		case rate >= cfg.SuccessThreshold:
			tally.addOutcome(key, 1, 0)
		case rate < cfg.FailureThreshold:
			tally.addOutcome(key, 0, 1)
		default:
			tally.addOutcome(key, 0, 0)
		}
	}
	out := tally.patterns(cfg.SlipMinSupport)
	sortByRate(out, true)
	return out
}

func sideLabel(r models.BetRecord) string {
	return string(r.BackedSide())
}

func mixLabel(mixed bool) string {
	if mixed {
		return "mixed sides"
	}
	return "single side"
}

// counter tallies keys in first-seen order
type counter struct {
	order []string
	items map[string]*models.Pattern
}

func newCounter() *counter {
	return &counter{items: make(map[string]*models.Pattern)}
}

func (c *counter) add(key string, win bool) {
	if win {
		c.addOutcome(key, 1, 0)
		return
	}
	c.addOutcome(key, 0, 1)
}

func (c *counter) addOutcome(key string, wins, losses int) {
	p, ok := c.items[key]
	if !ok {
		p = &models.Pattern{Key: key}
		c.items[key] = p
		c.order = append(c.order, key)
	}
	p.Wins += wins
	p.Losses += losses
	p.Total++
}

func (c *counter) patterns(minSupport int) []models.Pattern {
	out := make([]models.Pattern, 0, len(c.order))
	for _, key := range c.order {
		p := *c.items[key]
		if p.Total < minSupport {
			continue
		}
		p.WinRate = models.Rate(p.Wins, p.Total)
		out = append(out, p)
	}
	return out
}

func sortByRate(patterns []models.Pattern, descending bool) {
	sort.SliceStable(patterns, func(i, j int) bool {
		if descending {
			return patterns[i].WinRate > patterns[j].WinRate
		}
		return patterns[i].WinRate < patterns[j].WinRate
	})
}
