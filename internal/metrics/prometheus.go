package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion service

var (
	// Loader metrics
	LoaderResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_loader_results_total",
			Help: "Total number of hybrid loader resolutions by winning source",
		},
		[]string{"source"}, // schedule-file, schedule-api, none
	)

	LoaderFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nfl_loader_fallbacks_total",
			Help: "Total number of primary-to-secondary fallbacks",
		},
	)

	// Validation metrics
	ValidationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_validation_runs_total",
			Help: "Total number of validation runs",
		},
		[]string{"check", "result"},
	)

	ValidationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_validation_issues_total",
			Help: "Total number of validation issues found",
		},
		[]string{"check"},
	)

	ValidationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nfl_validation_duration_seconds",
			Help:    "Duration of validation runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"check"},
	)

	// Lock metrics
	LockAcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_lock_acquisitions_total",
			Help: "Total number of scheduler lock acquisition attempts",
		},
		[]string{"lock", "outcome"}, // acquired, contended
	)

	// Ingest metrics
	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_ingest_runs_total",
			Help: "Total number of ingest job runs",
		},
		[]string{"status"},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nfl_ingest_duration_seconds",
			Help:    "Duration of ingest job runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	MatchupsIngested = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nfl_matchups_ingested_total",
			Help: "Total number of matchups in database",
		},
	)

	// Alert metrics
	AlertsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nfl_alerts_sent_total",
			Help: "Total number of alerts forwarded to the sink",
		},
		[]string{"severity"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nfl_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulIngest = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nfl_last_successful_ingest_timestamp",
			Help: "Timestamp of last successful ingest run",
		},
	)
)

// RecordLoaderResult records which source won a loader resolution
func RecordLoaderResult(source string) {
	LoaderResultsTotal.WithLabelValues(source).Inc()
}

// RecordValidation records a validation run and its issue count
func RecordValidation(check string, issues int, duration float64) {
	result := "pass"
	if issues > 0 {
		result = "fail"
	}
	ValidationRunsTotal.WithLabelValues(check, result).Inc()
	ValidationIssuesTotal.WithLabelValues(check).Add(float64(issues))
	ValidationDuration.WithLabelValues(check).Observe(duration)
}

// RecordLockAttempt records a lock acquisition attempt
func RecordLockAttempt(lock string, acquired bool) {
	outcome := "acquired"
	if !acquired {
		outcome = "contended"
	}
	LockAcquisitionsTotal.WithLabelValues(lock, outcome).Inc()
}

// RecordIngest records an ingest job run
func RecordIngest(status string, duration float64) {
	IngestRunsTotal.WithLabelValues(status).Inc()
	IngestDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulIngest.SetToCurrentTime()
	}
}

// RecordAlert records an alert send
func RecordAlert(severity string) {
	AlertsSentTotal.WithLabelValues(severity).Inc()
}
