package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RatingUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rating_updates_total",
		Help:      "Total number of match results applied to team ratings by status",
	}, []string{"status"})

	TeamsTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "teams_tracked",
		Help:      "Number of teams held by the rating store",
	})

	IngestionBatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingestion_batch_duration_seconds",
		Help:      "Duration of completed-result ingestion batches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordRatingUpdate records a result application.
// status should be one of: "applied", "conflict", "duplicate", "failed"
func RecordRatingUpdate(status string) {
	RatingUpdatesTotal.WithLabelValues(status).Inc()
}

// UpdateTeamsTracked updates the tracked teams gauge.
func UpdateTeamsTracked(count int) {
	TeamsTracked.Set(float64(count))
}

// RecordIngestionBatch records the duration of one ingestion batch.
func RecordIngestionBatch(durationSeconds float64) {
	IngestionBatchDuration.Observe(durationSeconds)
}
