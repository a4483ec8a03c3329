package service

import (
	"time"

	"github.com/yourusername/wager-analyst/internal/analytics"
	"github.com/yourusername/wager-analyst/internal/config"
	"github.com/yourusername/wager-analyst/internal/confidence"
	"github.com/yourusername/wager-analyst/internal/logger"
	"github.com/yourusername/wager-analyst/internal/patterns"
	"github.com/yourusername/wager-analyst/internal/risk"
)

const (
	// DefaultRecommendationTopN is the number of ranked teams turned into recommendations
	DefaultRecommendationTopN = 10
	// DefaultBestBetTypeMinSettled is the settled floor for a team's best bet type
	DefaultBestBetTypeMinSettled = 3
)

// Settings gathers the tunables of every analysis stage
type Settings struct {
	Aggregation           analytics.AggregationConfig
	Ranking               analytics.RankingConfig
	Patterns              patterns.Config
	MonteCarlo            risk.MonteCarloConfig
	Policy                risk.Policy
	ConfidenceLevel       float64
	ExpectedRate          float64
	RecommendationTopN    int
	BestBetTypeMinSettled int
	Location              *time.Location
}

// DefaultSettings returns the standard analysis settings
func DefaultSettings() Settings {
	return Settings{
		Aggregation:           analytics.DefaultAggregationConfig(),
		Ranking:               analytics.DefaultRankingConfig(),
		Patterns:              patterns.DefaultConfig(),
		MonteCarlo:            risk.DefaultMonteCarloConfig(),
		Policy:                risk.DefaultPolicy(),
		ConfidenceLevel:       confidence.DefaultLevel,
		ExpectedRate:          confidence.DefaultExpectedRate,
		RecommendationTopN:    DefaultRecommendationTopN,
		BestBetTypeMinSettled: DefaultBestBetTypeMinSettled,
		Location:              time.UTC,
	}
}

// SettingsFromConfig maps the configuration onto Settings. Values that differ
// from the defaults are recorded on the audit trail when audit is non-nil.
func SettingsFromConfig(cfg *config.Config, audit *logger.AuditLogger) (Settings, error) {
	defaults := DefaultSettings()
	s := defaults

	loc, err := cfg.Location()
	if err != nil {
		return Settings{}, err
	}
	s.Location = loc

	s.Aggregation.RecentWindow = cfg.Analytics.RecentWindow
	s.Ranking = analytics.RankingConfig{
		TopN:           cfg.Analytics.TopN,
		BetTypeTopN:    cfg.Analytics.BetTypeTopN,
		MinBets:        cfg.Analytics.MinBets,
		MinBetTypeBets: cfg.Analytics.MinBetTypeBets,
	}
	s.ConfidenceLevel = cfg.Analytics.ConfidenceLevel
	s.ExpectedRate = cfg.Analytics.ExpectedWinRate
	if cfg.Analytics.RecommendationTopN > 0 {
		s.RecommendationTopN = cfg.Analytics.RecommendationTopN
	}

	s.MonteCarlo = risk.MonteCarloConfig{
		Simulations:  cfg.MonteCarlo.Simulations,
		BetsPerTrial: cfg.MonteCarlo.BetsPerSimulation,
		Workers:      cfg.MonteCarlo.Workers,
		Seed:         cfg.MonteCarlo.Seed,
		FallbackOdds: cfg.MonteCarlo.FallbackOdds,
	}

	s.Patterns = patterns.Config{
		MinSupport:       cfg.Patterns.MinSupport,
		SlipMinSupport:   cfg.Patterns.SlipMinSupport,
		SuccessThreshold: cfg.Patterns.SuccessThreshold,
		FailureThreshold: cfg.Patterns.FailureThreshold,
	}

	s.Policy.LowRiskScore = cfg.Risk.LowScore
	s.Policy.MediumRiskScore = cfg.Risk.MediumScore
	s.Policy.MinSettled = cfg.Risk.MinSettled

	if audit != nil {
		auditOverrides(audit, defaults, s)
	}
	return s, nil
}

func auditOverrides(audit *logger.AuditLogger, d, s Settings) {
	type override struct {
		name        string
		def, actual interface{}
	}
	overrides := []override{
		{"analytics.confidence_level", d.ConfidenceLevel, s.ConfidenceLevel},
		{"analytics.expected_win_rate", d.ExpectedRate, s.ExpectedRate},
		{"analytics.top_n", d.Ranking.TopN, s.Ranking.TopN},
		{"analytics.bet_type_top_n", d.Ranking.BetTypeTopN, s.Ranking.BetTypeTopN},
		{"analytics.recent_window", d.Aggregation.RecentWindow, s.Aggregation.RecentWindow},
		{"monte_carlo.simulations", d.MonteCarlo.Simulations, s.MonteCarlo.Simulations},
		{"monte_carlo.bets_per_simulation", d.MonteCarlo.BetsPerTrial, s.MonteCarlo.BetsPerTrial},
		{"patterns.min_support", d.Patterns.MinSupport, s.Patterns.MinSupport},
		{"patterns.success_threshold", d.Patterns.SuccessThreshold, s.Patterns.SuccessThreshold},
		{"patterns.failure_threshold", d.Patterns.FailureThreshold, s.Patterns.FailureThreshold},
		{"risk.low_score", d.Policy.LowRiskScore, s.Policy.LowRiskScore},
		{"risk.medium_score", d.Policy.MediumRiskScore, s.Policy.MediumRiskScore},
		{"risk.min_settled", d.Policy.MinSettled, s.Policy.MinSettled},
	}
	for _, o := range overrides {
		if o.def != o.actual {
			audit.LogPolicyOverride(o.name, o.def, o.actual, "config")
		}
	}
}
