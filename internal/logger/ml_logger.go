// Package logger provides ML-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for ML operations.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogMLPredictionRequest logs a served prediction at debug level.
func (ml *MLLogger) LogMLPredictionRequest(matchID string, modelVersion string, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"match_id":      matchID,
		"model_version": modelVersion,
		"cache_hit":     cacheHit,
		"latency_ms":    latencyMs,
	}).Debug("ML prediction served")
}

// LogMLFallback logs a prediction served by the statistical model instead.
func (ml *MLLogger) LogMLFallback(matchID string, reason string) {
	ml.WithFields(logrus.Fields{
		"match_id": matchID,
		"reason":   reason,
	}).Warn("ML prediction unavailable, using statistical estimate")
}

// LogMLPredictionError logs ML prediction errors.
func (ml *MLLogger) LogMLPredictionError(matchID string, errorReason string) {
	ml.WithFields(logrus.Fields{
		"match_id":     matchID,
		"error_reason": errorReason,
	}).Error("ML prediction failed")
}
