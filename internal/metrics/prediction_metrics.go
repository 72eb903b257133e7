package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction counter vectors
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of match predictions by source",
	}, []string{"source"})

	DegradedPredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_predictions_total",
		Help:      "Predictions served by the statistical model because the ML service failed",
	}, []string{"reason"})
)

// Prediction histogram vectors
var (
	PredictionConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_confidence",
		Help:      "Confidence of match predictions by source",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"source"})
)

// RecordPrediction records one match prediction.
// source should be one of: "ml", "statistical", "supplied"
func RecordPrediction(source string, confidence float64) {
	PredictionsTotal.WithLabelValues(source).Inc()
	PredictionConfidence.WithLabelValues(source).Observe(confidence)
}

// RecordDegradedPrediction records a fallback from the ML service to the statistical model.
func RecordDegradedPrediction(reason string) {
	DegradedPredictionsTotal.WithLabelValues(reason).Inc()
}
