// Package service orchestrates loading, aggregation, ranking, risk assessment,
// pattern mining and snapshot storage.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wager-analyst/internal/analytics"
	"github.com/yourusername/wager-analyst/internal/logger"
	"github.com/yourusername/wager-analyst/internal/metrics"
	"github.com/yourusername/wager-analyst/internal/models"
	"github.com/yourusername/wager-analyst/internal/patterns"
	"github.com/yourusername/wager-analyst/internal/query"
	"github.com/yourusername/wager-analyst/internal/risk"
)

// RecordSource supplies raw bet records
type RecordSource interface {
	FetchRecords(ctx context.Context) ([]models.BetRecord, error)
	Name() string
}

// SnapshotStore keeps one prediction snapshot per calendar date
type SnapshotStore interface {
	Get(ctx context.Context, date string) (*models.PredictionSnapshot, bool, error)
	Put(ctx context.Context, snapshot *models.PredictionSnapshot) error
	Name() string
}

// Confidence labels attached to recommendations
const (
	LabelHighConfidence     = "High Confidence"
	LabelModerateConfidence = "Moderate Confidence"
	LabelLowConfidence      = "Low Confidence"
)

// Dataset is the deduplicated record set with its aggregates
type Dataset struct {
	RawCount  int
	Records   []models.BetRecord
	Teams     []models.TeamStat
	Leagues   []models.LeagueStat
	Countries []models.CountryStat
}

// TeamAssessment is the risk view of one team and bet type
type TeamAssessment struct {
	Team    string                `json:"team"`
	Country string                `json:"country"`
	League  string                `json:"league"`
	BetType string                `json:"bet_type,omitempty"`
	Wins    int                   `json:"wins"`
	Losses  int                   `json:"losses"`
	AvgOdds float64               `json:"avg_odds"`
	Label   string                `json:"confidence_label"`
	Risk    models.RiskAssessment `json:"risk"`
}

// AnalysisService runs the analysis pipeline over a record source
type AnalysisService struct {
	source    RecordSource
	store     SnapshotStore
	settings  Settings
	assessor  *risk.Assessor
	analytics *logger.AnalyticsLogger
	audit     *logger.AuditLogger
	now       func() time.Time
}

// NewAnalysisService creates a service. store may be nil when snapshots are unused.
func NewAnalysisService(source RecordSource, store SnapshotStore, settings Settings, log *logrus.Logger) *AnalysisService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &AnalysisService{
		source:    source,
		store:     store,
		settings:  settings,
		assessor:  risk.NewAssessor(settings.Policy, settings.MonteCarlo),
		analytics: logger.NewAnalyticsLogger(log),
		audit:     logger.NewAuditLogger(log),
		now:       time.Now,
	}
}

// Settings returns the settings in use
func (s *AnalysisService) Settings() Settings {
	return s.settings
}

// Load fetches, deduplicates and aggregates the records
func (s *AnalysisService) Load(ctx context.Context) (*Dataset, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no record source configured", models.ErrInvalidInput)
	}

	start := time.Now()
	raw, err := s.source.FetchRecords(ctx)
	if err != nil {
		metrics.RecordAnalysisRun("load", "failure", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to fetch records from %s: %w", s.source.Name(), err)
	}

	records := analytics.Deduplicate(raw)
	ds := &Dataset{
		RawCount:  len(raw),
		Records:   records,
		Teams:     analytics.AggregateTeams(records, s.settings.Aggregation),
		Leagues:   analytics.AggregateLeagues(records, s.settings.Aggregation),
		Countries: analytics.AggregateCountries(records, s.settings.Aggregation),
	}

	elapsed := time.Since(start)
	metrics.RecordIngestion(len(raw), len(records))
	metrics.RecordAnalysisRun("load", "success", elapsed.Seconds())
	s.analytics.LogAggregation(len(raw), len(records), len(ds.Teams), len(ds.Leagues), len(ds.Countries), elapsed)
	return ds, nil
}

// Rank ranks teams overall, or for one bet type when betType is non-empty
func (s *AnalysisService) Rank(ctx context.Context, betType string) ([]models.RankedTeam, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.RankDataset(ds, betType), nil
}

// RankDataset ranks an already loaded dataset
func (s *AnalysisService) RankDataset(ds *Dataset, betType string) []models.RankedTeam {
	var ranked []models.RankedTeam
	if betType == "" {
		ranked = analytics.RankTeams(ds.Teams, s.settings.Ranking)
	} else {
		ranked = analytics.RankTeamsByBetType(ds.Teams, betType, s.settings.Ranking)
	}

	var top float64
	if len(ranked) > 0 {
		top = ranked[0].CompositeScore
	}
	if betType == "" {
		metrics.UpdateRanking(len(ranked), top)
	}
	s.analytics.LogRanking(betType, len(ds.Teams), len(ranked), top)
	return ranked
}

// BetTypeRankings ranks every bet type present in the dataset, omitting empty rankings
func (s *AnalysisService) BetTypeRankings(ds *Dataset) map[string][]models.RankedTeam {
	rankings := make(map[string][]models.RankedTeam)
	for _, betType := range analytics.BetTypes(ds.Teams) {
		if ranked := s.RankDataset(ds, betType); len(ranked) > 0 {
			rankings[betType] = ranked
		}
	}
	return rankings
}

// Patterns mines every pattern family from the loaded records
func (s *AnalysisService) Patterns(ctx context.Context) (models.PatternReport, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return models.PatternReport{}, err
	}
	return s.minePatterns(ds), nil
}

func (s *AnalysisService) minePatterns(ds *Dataset) models.PatternReport {
	start := time.Now()
	report := patterns.Mine(ds.Records, s.settings.Patterns)
	metrics.RecordAnalysisRun("patterns", "success", time.Since(start).Seconds())
	s.analytics.LogPatternMining(len(report.Success), len(report.Failure), len(report.Team), len(report.League), len(report.Betslip))
	return report
}

// RunQuery executes q against the loaded records and team aggregates
func (s *AnalysisService) RunQuery(ctx context.Context, q query.Query) ([]query.Match, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	matches := q.Execute(ds.Records, ds.Teams)

	aggregates := 0
	for _, f := range q.Filters() {
		if f.HasAggregate() {
			aggregates++
		}
	}
	metrics.RecordQuery()
	s.analytics.LogQuery(q.Len(), aggregates, len(matches))
	return matches, nil
}

// Recommend turns the top ranked teams into risk-assessed recommendations
func (s *AnalysisService) Recommend(ctx context.Context, ranked []models.RankedTeam) ([]models.Recommendation, error) {
	limit := s.settings.RecommendationTopN
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}

	recs := make([]models.Recommendation, 0, limit)
	for _, rt := range ranked[:limit] {
		assessment, err := s.assess(ctx, rt.Stat, "")
		if err != nil {
			return nil, fmt.Errorf("failed to assess %s: %w", rt.Team, err)
		}

		rec := models.Recommendation{
			ID:              uuid.New(),
			Rank:            rt.Rank,
			Team:            rt.Team,
			Country:         rt.Country,
			League:          rt.League,
			BetType:         assessment.BetType,
			WinRate:         rt.WinRate,
			CompositeScore:  rt.CompositeScore,
			ConfidenceLabel: assessment.Label,
			Risk:            assessment.Risk,
		}
		recs = append(recs, rec)

		metrics.RecordRecommendation(string(rec.Risk.RiskLevel))
		s.analytics.LogRecommendation(rec.Rank, rec.Team, rec.BetType, string(rec.Risk.RiskLevel), rec.Risk.RiskScore, rec.ConfidenceLabel)
	}
	return recs, nil
}

// AssessTeam assesses every (team, country, league) entry whose name matches
// team case-insensitively. A non-empty betType narrows the record to that bet
// type; otherwise the team's best bet type is used when it has one.
func (s *AnalysisService) AssessTeam(ctx context.Context, team, betType string) ([]TeamAssessment, error) {
	if strings.TrimSpace(team) == "" {
		return nil, fmt.Errorf("%w: team name is required", models.ErrInvalidInput)
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	var out []TeamAssessment
	for _, stat := range ds.Teams {
		if !strings.EqualFold(stat.Team, strings.TrimSpace(team)) {
			continue
		}
		assessment, err := s.assess(ctx, stat, betType)
		if err != nil {
			return nil, err
		}
		out = append(out, assessment)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: team %q", models.ErrNotFound, team)
	}
	return out, nil
}

func (s *AnalysisService) assess(ctx context.Context, stat models.TeamStat, betType string) (TeamAssessment, error) {
	wins, losses := stat.Wins, stat.Losses
	chosen := ""

	if betType != "" {
		record, ok := analytics.MatchBetTypeRecord(stat, betType)
		if !ok {
			return TeamAssessment{}, fmt.Errorf("%w: %s has no %q bets", models.ErrNotFound, stat.Team, betType)
		}
		chosen, wins, losses = betType, record.Wins, record.Losses
	} else if name, record, ok := analytics.BestBetType(stat, s.settings.BestBetTypeMinSettled); ok {
		chosen, wins, losses = name, record.Wins, record.Losses
	}

	start := time.Now()
	assessment, err := s.assessor.Assess(ctx, risk.Input{
		Wins:            wins,
		Losses:          losses,
		AvgOdds:         stat.AvgOdds,
		ConfidenceLevel: s.settings.ConfidenceLevel,
		ExpectedRate:    s.settings.ExpectedRate,
	})
	if err != nil {
		return TeamAssessment{}, err
	}
	elapsed := time.Since(start)
	metrics.RecordSimulationDuration(elapsed.Seconds())
	s.analytics.LogSimulation(stat.Team, assessment.MonteCarlo.Simulations, assessment.MonteCarlo.WinRate,
		assessment.MonteCarlo.ProfitProbability, elapsed)

	return TeamAssessment{
		Team:    stat.Team,
		Country: stat.Country,
		League:  stat.League,
		BetType: chosen,
		Wins:    wins,
		Losses:  losses,
		AvgOdds: stat.AvgOdds,
		Label:   ConfidenceLabel(assessment),
		Risk:    assessment,
	}, nil
}

// ConfidenceLabel maps an assessment onto its display label
func ConfidenceLabel(a models.RiskAssessment) string {
	if a.InsufficientData {
		return models.InsufficientDataLabel
	}
	switch a.RiskLevel {
	case models.RiskLow:
		return LabelHighConfidence
	case models.RiskMedium:
		return LabelModerateConfidence
	default:
		return LabelLowConfidence
	}
}

// Today returns the calendar date snapshots are keyed by
func (s *AnalysisService) Today() string {
	return s.now().In(s.settings.Location).Format(time.DateOnly)
}

// GenerateSnapshot runs the full pipeline and stores the result for today,
// replacing any snapshot already stored for the date.
func (s *AnalysisService) GenerateSnapshot(ctx context.Context) (*models.PredictionSnapshot, error) {
	start := time.Now()
	date := s.Today()

	snapshot, err := s.buildSnapshot(ctx, date)
	if err != nil {
		metrics.RecordAnalysisRun("snapshot", "failure", time.Since(start).Seconds())
		s.audit.LogSnapshotFailure(date, err)
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Put(ctx, snapshot); err != nil {
			metrics.RecordAnalysisRun("snapshot", "failure", time.Since(start).Seconds())
			s.audit.LogSnapshotFailure(date, err)
			return nil, fmt.Errorf("failed to store snapshot: %w", err)
		}
		s.audit.LogSnapshotStored(snapshot.ID.String(), date, s.store.Name(), len(snapshot.Recommendations), snapshot.GeneratedAt)
	}

	metrics.RecordAnalysisRun("snapshot", "success", time.Since(start).Seconds())
	return snapshot, nil
}

// GetOrGenerate returns today's stored snapshot, generating it when absent.
// The boolean reports whether the snapshot came from the store.
func (s *AnalysisService) GetOrGenerate(ctx context.Context) (*models.PredictionSnapshot, bool, error) {
	if s.store != nil {
		snapshot, found, err := s.store.Get(ctx, s.Today())
		if err != nil && !errors.Is(err, context.Canceled) {
			s.audit.WithError(err).Warn("Snapshot lookup failed; regenerating")
		} else if err != nil {
			return nil, false, err
		}
		if found {
			return snapshot, true, nil
		}
	}

	snapshot, err := s.GenerateSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	return snapshot, false, nil
}

func (s *AnalysisService) buildSnapshot(ctx context.Context, date string) (*models.PredictionSnapshot, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	top := s.RankDataset(ds, "")
	recs, err := s.Recommend(ctx, top)
	if err != nil {
		return nil, err
	}

	return &models.PredictionSnapshot{
		ID:              uuid.New(),
		Date:            date,
		GeneratedAt:     s.now().UTC(),
		RecordCount:     len(ds.Records),
		TopTeams:        top,
		BetTypeRankings: s.BetTypeRankings(ds),
		Recommendations: recs,
		Patterns:        s.minePatterns(ds),
		Leagues:         ds.Leagues,
		Countries:       ds.Countries,
	}, nil
}
