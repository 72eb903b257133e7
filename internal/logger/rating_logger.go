// Package logger provides rating-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// RatingLogger provides dedicated logging for team rating updates.
type RatingLogger struct {
	*logrus.Entry
}

// NewRatingLogger creates a new rating logger.
func NewRatingLogger(baseLogger *logrus.Logger) *RatingLogger {
	return &RatingLogger{
		Entry: baseLogger.WithField("component", "ratings"),
	}
}

// LogResultApplied logs the change a single result made to one team.
func (rl *RatingLogger) LogResultApplied(matchID string, before, after models.Team) {
	rl.WithFields(logrus.Fields{
		"match_id":       matchID,
		"team":           after.Name,
		"overall_before": before.Overall,
		"overall_after":  after.Overall,
		"form":           after.Form,
		"form_rating":    after.FormRating,
		"momentum":       after.Momentum,
		"version":        after.Version,
	}).Info("Team rating updated")

	if before.IsImproving != after.IsImproving || before.IsTopTeam != after.IsTopTeam || before.IsBottomTeam != after.IsBottomTeam {
		rl.WithFields(logrus.Fields{
			"team":           after.Name,
			"is_top_team":    after.IsTopTeam,
			"is_bottom_team": after.IsBottomTeam,
			"is_improving":   after.IsImproving,
		}).Info("Team classification changed")
	}
}

// LogPersistenceFailure logs a result that could not be stored and was not applied.
func (rl *RatingLogger) LogPersistenceFailure(matchID string, err error) {
	rl.WithFields(logrus.Fields{
		"match_id": matchID,
		"error":    err.Error(),
	}).Error("Rating update rolled back")
}

// LogIngestionBatch logs a completed result ingestion pass.
func (rl *RatingLogger) LogIngestionBatch(pending, applied int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"pending":     pending,
		"applied":     applied,
		"duration_ms": durationMs,
	}).Info("Result ingestion completed")
}
