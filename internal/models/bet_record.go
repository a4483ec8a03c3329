package models

import (
	"strings"
	"time"
)

// Result represents the settlement state recorded for a wager
type Result string

const (
	ResultWin     Result = "WIN"
	ResultLoss    Result = "LOSS"
	ResultDraw    Result = "DRAW"
	ResultPending Result = "PENDING"
	ResultUnknown Result = "UNKNOWN"
)

// Outcome is the normalized view of a Result used by every rate computation
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeWin
	OutcomeLoss
)

// Outcome lower-cases the raw result and matches by substring. Anything that is
// neither a win nor a loss, including an empty string, counts as pending.
func (r Result) Outcome() Outcome {
	s := strings.ToLower(string(r))
	switch {
	case strings.Contains(s, "win"):
		return OutcomeWin
	case strings.Contains(s, "loss"):
		return OutcomeLoss
	default:
		return OutcomePending
	}
}

// IsSettled reports whether the result is a win or a loss
func (r Result) IsSettled() bool {
	return r.Outcome() != OutcomePending
}

// Side identifies which side of a fixture a wager backed
type Side string

const (
	SideHome  Side = "Home"
	SideAway  Side = "Away"
	SideOther Side = "Other"
)

// BetRecord represents one historical wager line
type BetRecord struct {
	Date         time.Time `json:"date"`
	Country      string    `json:"country"`
	League       string    `json:"league"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	BetType      string    `json:"bet_type"`
	BetSelection string    `json:"bet_selection"`
	TeamIncluded string    `json:"team_included"`
	OddsHome     *float64  `json:"odds_home,omitempty"`
	OddsAway     *float64  `json:"odds_away,omitempty"`
	OddsDraw     *float64  `json:"odds_draw,omitempty"`
	HomeScore    *int      `json:"home_score,omitempty"`
	AwayScore    *int      `json:"away_score,omitempty"`
	HomePosition *int      `json:"home_position,omitempty"`
	AwayPosition *int      `json:"away_position,omitempty"`
	Result       Result    `json:"result"`
	BetID        string    `json:"bet_id"`
}

// DateKey returns the calendar date as YYYY-MM-DD, or an empty string when unset
func (b BetRecord) DateKey() string {
	if b.Date.IsZero() {
		return ""
	}
	return b.Date.Format("2006-01-02")
}

// IdentityKey returns the deduplication key. Missing fields participate as empty strings.
func (b BetRecord) IdentityKey() string {
	return strings.Join([]string{b.DateKey(), b.HomeTeam, b.AwayTeam, b.BetType, b.BetSelection}, "|")
}

// BackedSide reports whether team_included names the home or the away side
func (b BetRecord) BackedSide() Side {
	team := strings.TrimSpace(b.TeamIncluded)
	if team == "" {
		return SideOther
	}
	if strings.EqualFold(team, strings.TrimSpace(b.HomeTeam)) {
		return SideHome
	}
	if strings.EqualFold(team, strings.TrimSpace(b.AwayTeam)) {
		return SideAway
	}
	return SideOther
}

// BackedOdds returns the odds of the backed side, or 0 when they are unknown
func (b BetRecord) BackedOdds() float64 {
	var odds *float64
	switch b.BackedSide() {
	case SideHome:
		odds = b.OddsHome
	case SideAway:
		odds = b.OddsAway
	default:
		if isDrawSelection(b.BetSelection) || isDrawSelection(b.TeamIncluded) {
			odds = b.OddsDraw
		}
	}
	if odds == nil || *odds <= 0 {
		return 0
	}
	return *odds
}

func isDrawSelection(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "x" || s == "draw"
}
