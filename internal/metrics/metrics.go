// Package metrics provides the Prometheus registry for analysis runs and snapshots.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wager_analyst"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysisRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_runs_total",
		Help:      "Total number of analysis runs by operation and status",
	}, []string{"operation", "status"})
	RecordsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_ingested_total",
		Help:      "Total number of raw bet records passed to analysis",
	})
	DuplicateRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_records_total",
		Help:      "Total number of records dropped by deduplication",
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Total number of recommendations generated by risk level",
	}, []string{"risk_level"})
	QueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total number of ad-hoc queries executed",
	})
)

// Gauge metrics
var (
	RankedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ranked_teams",
		Help:      "Number of teams in the latest general ranking",
	})
	TopCompositeScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "top_composite_score",
		Help:      "Composite score of the top ranked team",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of analysis operations in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_duration_seconds",
		Help:      "Duration of a single Monte Carlo simulation in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysisRunsTotal)
		registry.MustRegister(RecordsIngestedTotal)
		registry.MustRegister(DuplicateRecordsTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(QueriesTotal)

		registry.MustRegister(RankedTeams)
		registry.MustRegister(TopCompositeScore)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(SimulationDuration)

		registry.MustRegister(SnapshotWritesTotal)
		registry.MustRegister(SnapshotLookupsTotal)
		registry.MustRegister(LastSnapshotTimestamp)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAnalysisRun records a completed operation. status is "success" or "failure".
func RecordAnalysisRun(operation, status string, durationSeconds float64) {
	AnalysisRunsTotal.WithLabelValues(operation, status).Inc()
	AnalysisDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordIngestion records raw and deduplicated record counts.
func RecordIngestion(raw, unique int) {
	RecordsIngestedTotal.Add(float64(raw))
	if raw > unique {
		DuplicateRecordsTotal.Add(float64(raw - unique))
	}
}

// RecordRecommendation records a recommendation at the given risk level.
func RecordRecommendation(riskLevel string) {
	RecommendationsTotal.WithLabelValues(riskLevel).Inc()
}

// RecordQuery records an ad-hoc query execution.
func RecordQuery() {
	QueriesTotal.Inc()
}

// UpdateRanking updates the ranking gauges.
func UpdateRanking(ranked int, topScore float64) {
	RankedTeams.Set(float64(ranked))
	TopCompositeScore.Set(topScore)
}

// RecordSimulationDuration records one Monte Carlo run.
func RecordSimulationDuration(durationSeconds float64) {
	SimulationDuration.Observe(durationSeconds)
}
