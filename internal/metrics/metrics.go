// Package metrics provides the centralized Prometheus registry for the slip engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "slip_engine"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GenerationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Total number of slip generation requests by outcome",
	}, []string{"status", "risk_profile"})
	SlipsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slips_generated_total",
		Help:      "Total number of ranked slips returned to callers",
	})
	CombinationTruncationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "combination_truncations_total",
		Help:      "Total number of generations that hit the combination cap",
	})
	FallbackSlipsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_slips_total",
		Help:      "Total number of fallback slips produced by reason",
	}, []string{"reason"})
	GenerationCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_cache_total",
		Help:      "Generation cache lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	LastGenerationSlips = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_generation_slips",
		Help:      "Number of slips returned by the most recent generation",
	})
)

// Histogram metrics
var (
	GenerationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Duration of slip generation in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
	CandidatesPerGeneration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "candidates_per_generation",
		Help:      "Candidate slips enumerated before ranking",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
	SlipExpectedValue = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "slip_expected_value",
		Help:      "Expected value of returned slips",
		Buckets:   []float64{-1, -0.5, -0.25, 0, 0.25, 0.5, 1, 2, 5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register generation metrics
		registry.MustRegister(GenerationsTotal)
		registry.MustRegister(SlipsGeneratedTotal)
		registry.MustRegister(CombinationTruncationsTotal)
		registry.MustRegister(FallbackSlipsTotal)
		registry.MustRegister(GenerationCacheTotal)
		registry.MustRegister(LastGenerationSlips)
		registry.MustRegister(GenerationDuration)
		registry.MustRegister(CandidatesPerGeneration)
		registry.MustRegister(SlipExpectedValue)

		// Register prediction metrics
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(DegradedPredictionsTotal)
		registry.MustRegister(PredictionConfidence)

		// Register rating metrics
		registry.MustRegister(RatingUpdatesTotal)
		registry.MustRegister(TeamsTracked)
		registry.MustRegister(IngestionBatchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler. The default gatherer is merged in
// for the Go runtime collectors and the ML client metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}, promhttp.HandlerOpts{})
}

// RecordGeneration records a completed generation request.
func RecordGeneration(status, riskProfile string, durationSeconds float64) {
	GenerationsTotal.WithLabelValues(status, riskProfile).Inc()
	GenerationDuration.Observe(durationSeconds)
}

// RecordSlips records the slips returned by one generation.
func RecordSlips(count int, expectedValues []float64) {
	SlipsGeneratedTotal.Add(float64(count))
	LastGenerationSlips.Set(float64(count))
	for _, ev := range expectedValues {
		SlipExpectedValue.Observe(ev)
	}
}

// RecordCandidates records the size of the candidate pool.
func RecordCandidates(count int, truncated bool) {
	CandidatesPerGeneration.Observe(float64(count))
	if truncated {
		CombinationTruncationsTotal.Inc()
	}
}

// RecordFallback records a fallback slip.
// reason should be one of: "no_candidates", "panic", "timeout"
func RecordFallback(reason string) {
	FallbackSlipsTotal.WithLabelValues(reason).Inc()
}

// RecordCacheLookup records a generation cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	GenerationCacheTotal.WithLabelValues(result).Inc()
}
