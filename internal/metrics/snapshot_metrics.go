package metrics

import "github.com/prometheus/client_golang/prometheus"

// Snapshot counter vectors
var (
	SnapshotWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_writes_total",
		Help:      "Total number of prediction snapshot writes by backend and status",
	}, []string{"backend", "status"})

	SnapshotLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_lookups_total",
		Help:      "Total number of prediction snapshot lookups by backend and result",
	}, []string{"backend", "result"})
)

// Snapshot gauges
var (
	LastSnapshotTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_snapshot_timestamp_seconds",
		Help:      "Unix time of the most recently stored prediction snapshot",
	})
)

// RecordSnapshotWrite records a snapshot write.
// status should be one of: "success", "failure"
func RecordSnapshotWrite(backend, status string, unixSeconds float64) {
	SnapshotWritesTotal.WithLabelValues(backend, status).Inc()
	if status == "success" {
		LastSnapshotTimestamp.Set(unixSeconds)
	}
}

// RecordSnapshotLookup records a snapshot lookup.
// result should be one of: "hit", "miss", "error"
func RecordSnapshotLookup(backend, result string) {
	SnapshotLookupsTotal.WithLabelValues(backend, result).Inc()
}
