// Package logger provides generation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// GenerationLogger provides dedicated logging for slip generation runs.
type GenerationLogger struct {
	*logrus.Entry
}

// NewGenerationLogger creates a new generation logger.
func NewGenerationLogger(baseLogger *logrus.Logger) *GenerationLogger {
	return &GenerationLogger{
		Entry: baseLogger.WithField("component", "generation"),
	}
}

// LogGenerationStarted logs the normalized request of a generation run.
func (gl *GenerationLogger) LogGenerationStarted(runID, masterSlipID string, matchCount int, riskProfile string, strategies []string) {
	gl.WithFields(logrus.Fields{
		"run_id":         runID,
		"master_slip_id": masterSlipID,
		"match_count":    matchCount,
		"risk_profile":   riskProfile,
		"strategies":     strategies,
	}).Info("Slip generation started")
}

// LogCombinationsGenerated logs the size of the candidate pool.
func (gl *GenerationLogger) LogCombinationsGenerated(runID string, candidates, matchesUsed int, truncated, fallback bool) {
	entry := gl.WithFields(logrus.Fields{
		"run_id":       runID,
		"candidates":   candidates,
		"matches_used": matchesUsed,
		"truncated":    truncated,
		"fallback":     fallback,
	})
	switch {
	case fallback:
		entry.Warn("No viable candidates, returning fallback slip")
	case truncated:
		entry.Debug("Candidate generation truncated at combination cap")
	default:
		entry.Debug("Candidates generated")
	}
}

// LogGenerationCompleted logs a successful run.
func (gl *GenerationLogger) LogGenerationCompleted(runID string, slips int, avgOdds, avgEV float64, durationMs float64, cacheHit bool) {
	gl.WithFields(logrus.Fields{
		"run_id":       runID,
		"slips":        slips,
		"average_odds": avgOdds,
		"average_ev":   avgEV,
		"duration_ms":  durationMs,
		"cache_hit":    cacheHit,
	}).Info("Slip generation completed")
}

// LogGenerationFailed logs a run that returned fallback slips.
func (gl *GenerationLogger) LogGenerationFailed(runID string, reason string, fallbackSlips int) {
	gl.WithFields(logrus.Fields{
		"run_id":         runID,
		"reason":         reason,
		"fallback_slips": fallbackSlips,
	}).Error("Slip generation failed")
}
