package models

import (
	"time"

	"github.com/google/uuid"
)

// Pattern is a mined combination with its settled record. WinRate is 0-100.
type Pattern struct {
	Key     string  `json:"key"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Total   int     `json:"total"`
	WinRate float64 `json:"win_rate"`
}

// PatternReport groups every pattern family produced by one mining pass
type PatternReport struct {
	Success []Pattern `json:"success"`
	Failure []Pattern `json:"failure"`
	Team    []Pattern `json:"team"`
	League  []Pattern `json:"league"`
	Betslip []Pattern `json:"betslip"`
}

// ConfidenceInterval is a binomial interval on the [0,1] scale
type ConfidenceInterval struct {
	PointEstimate   float64 `json:"point_estimate"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	Margin          float64 `json:"margin"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// Width returns the distance between the bounds
func (c ConfidenceInterval) Width() float64 {
	return c.UpperBound - c.LowerBound
}

// Significance is the outcome of a two-tailed z-test against an expected win rate
type Significance struct {
	ObservedRate  float64 `json:"observed_rate"`
	ExpectedRate  float64 `json:"expected_rate"`
	ZScore        float64 `json:"z_score"`
	PValue        float64 `json:"p_value"`
	IsSignificant bool    `json:"is_significant"`
}

// Confidence returns 1 - p, the share used by the risk policy
func (s Significance) Confidence() float64 {
	return 1 - s.PValue
}

// MonteCarloSummary aggregates per-trial ROI percentages
type MonteCarloSummary struct {
	Simulations          int     `json:"simulations"`
	BetsPerSimulation    int     `json:"bets_per_simulation"`
	WinRate              float64 `json:"win_rate"`
	AvgOdds              float64 `json:"avg_odds"`
	AvgROI               float64 `json:"avg_roi"`
	MedianROI            float64 `json:"median_roi"`
	ProfitProbability    float64 `json:"profit_probability"`
	BreakEvenProbability float64 `json:"break_even_probability"`
	Percentile10         float64 `json:"percentile_10"`
	Percentile25         float64 `json:"percentile_25"`
	Percentile75         float64 `json:"percentile_75"`
	Percentile90         float64 `json:"percentile_90"`
}

// RiskLevel is the tier assigned to a recommendation
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskAssessment combines interval, significance and simulation into a tier
type RiskAssessment struct {
	RiskLevel          RiskLevel          `json:"risk_level"`
	RiskScore          int                `json:"risk_score"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	MonteCarlo         MonteCarloSummary  `json:"monte_carlo_summary"`
	Significance       Significance       `json:"significance"`
	SampleSize         int                `json:"sample_size"`
	InsufficientData   bool               `json:"insufficient_data"`
}

// InsufficientDataLabel marks entities whose sample is below the reporting minimum
const InsufficientDataLabel = "Insufficient Data"

// Recommendation is a ranked team paired with its best bet type and risk tier
type Recommendation struct {
	ID              uuid.UUID      `json:"id"`
	Rank            int            `json:"rank"`
	Team            string         `json:"team"`
	Country         string         `json:"country"`
	League          string         `json:"league"`
	BetType         string         `json:"bet_type"`
	WinRate         float64        `json:"win_rate"`
	CompositeScore  float64        `json:"composite_score"`
	ConfidenceLabel string         `json:"confidence_label"`
	Risk            RiskAssessment `json:"risk"`
}

// PredictionSnapshot is the payload stored once per calendar day
type PredictionSnapshot struct {
	ID              uuid.UUID               `json:"id"`
	Date            string                  `json:"date"`
	GeneratedAt     time.Time               `json:"generated_at"`
	RecordCount     int                     `json:"record_count"`
	TopTeams        []RankedTeam            `json:"top_teams"`
	BetTypeRankings map[string][]RankedTeam `json:"bet_type_rankings"`
	Recommendations []Recommendation        `json:"recommendations"`
	Patterns        PatternReport           `json:"patterns"`
	Leagues         []LeagueStat            `json:"league_stats"`
	Countries       []CountryStat           `json:"country_stats"`
}
