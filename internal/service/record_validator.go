package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/wager-analyst/internal/models"
)

// RecordValidator checks bet records before they are persisted
type RecordValidator struct {
	now func() time.Time
}

// NewRecordValidator creates a new record validator
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{now: time.Now}
}

// ValidateRecord returns every problem found with record. Analysis tolerates
// sparse records; persistence needs a dated fixture with two named sides.
func (v *RecordValidator) ValidateRecord(record models.BetRecord) []string {
	var problems []string

	if record.Date.IsZero() {
		problems = append(problems, "date is required")
	} else if record.Date.After(v.now().Add(365 * 24 * time.Hour)) {
		problems = append(problems, "date is more than 1 year in the future")
	}

	if strings.TrimSpace(record.HomeTeam) == "" {
		problems = append(problems, "home_team is required")
	}
	if strings.TrimSpace(record.AwayTeam) == "" {
		problems = append(problems, "away_team is required")
	}

	for name, odds := range map[string]*float64{
		"odds_home": record.OddsHome,
		"odds_away": record.OddsAway,
		"odds_draw": record.OddsDraw,
	} {
		if odds != nil && *odds < 1.0 {
			problems = append(problems, fmt.Sprintf("%s must be at least 1.0, got %.2f", name, *odds))
		}
	}

	for name, score := range map[string]*int{
		"home_score": record.HomeScore,
		"away_score": record.AwayScore,
	} {
		if score != nil && *score < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative, got %d", name, *score))
		}
	}

	return problems
}
