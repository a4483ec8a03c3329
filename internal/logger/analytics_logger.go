package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AnalyticsLogger provides dedicated logging for analysis runs.
type AnalyticsLogger struct {
	*logrus.Entry
}

// NewAnalyticsLogger creates a new analytics logger.
func NewAnalyticsLogger(baseLogger *logrus.Logger) *AnalyticsLogger {
	return &AnalyticsLogger{
		Entry: baseLogger.WithField("component", "analytics"),
	}
}

// LogAggregation logs the outcome of deduplication and aggregation.
func (al *AnalyticsLogger) LogAggregation(rawRecords, uniqueRecords, teams, leagues, countries int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"raw_records":    rawRecords,
		"unique_records": uniqueRecords,
		"duplicates":     rawRecords - uniqueRecords,
		"teams":          teams,
		"leagues":        leagues,
		"countries":      countries,
		"duration_ms":    duration.Milliseconds(),
	}).Info("Records aggregated")
}

// LogRanking logs a ranking pass.
func (al *AnalyticsLogger) LogRanking(betType string, candidates, ranked int, topScore float64) {
	if betType == "" {
		betType = "all"
	}
	al.WithFields(logrus.Fields{
		"bet_type":   betType,
		"candidates": candidates,
		"ranked":     ranked,
		"top_score":  topScore,
	}).Info("Teams ranked")
}

// LogSimulation logs a Monte Carlo run.
func (al *AnalyticsLogger) LogSimulation(team string, simulations int, winRate, profitProbability float64, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"team":               team,
		"simulations":        simulations,
		"win_rate":           winRate,
		"profit_probability": profitProbability,
		"duration_ms":        duration.Milliseconds(),
	}).Debug("Monte Carlo simulation completed")
}

// LogPatternMining logs the size of each pattern family.
func (al *AnalyticsLogger) LogPatternMining(success, failure, team, league, betslip int) {
	al.WithFields(logrus.Fields{
		"success_patterns": success,
		"failure_patterns": failure,
		"team_patterns":    team,
		"league_patterns":  league,
		"betslip_patterns": betslip,
	}).Info("Patterns mined")
}

// LogQuery logs an ad-hoc query execution.
func (al *AnalyticsLogger) LogQuery(filters, aggregateFilters, matches int) {
	al.WithFields(logrus.Fields{
		"filters":           filters,
		"aggregate_filters": aggregateFilters,
		"matches":           matches,
	}).Info("Query executed")
}

// LogRecommendation logs one recommendation and its risk tier.
func (al *AnalyticsLogger) LogRecommendation(rank int, team, betType, riskLevel string, riskScore int, label string) {
	al.WithFields(logrus.Fields{
		"rank":             rank,
		"team":             team,
		"bet_type":         betType,
		"risk_level":       riskLevel,
		"risk_score":       riskScore,
		"confidence_label": label,
	}).Debug("Recommendation generated")
}
