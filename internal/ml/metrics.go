package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "slip_engine"
	metricsSubsystem = "ml_client"
)

// Client collectors live on the default registry; metrics.Handler gathers them.
var (
	MLPredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "predictions_total",
		Help:      "Match predictions returned by the scoring client",
	}, []string{"cache_hit"})

	MLPredictionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "request_duration_seconds",
		Help:      "Scoring service request latency",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"transport"})

	MLCacheHitRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "cache_hit_ratio",
		Help:      "Prediction cache hit ratio since start",
	})

	MLRequestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "request_errors_total",
		Help:      "Failed scoring service requests",
	}, []string{"method", "error_type"})

	// 0 closed, 1 half-open, 2 open
	MLCircuitState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "circuit_state",
		Help:      "Scoring client circuit breaker state",
	})
)
