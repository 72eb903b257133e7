package strategy

import (
	"math"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// Statistics summarises a ranked slip set. matchCount is the number of
// selections on the master slip.
func Statistics(slips []models.CandidateSlip, matchCount int) models.GenerationStatistics {
	stats := models.GenerationStatistics{
		TotalSlips:              len(slips),
		MatchCount:              matchCount,
		TheoreticalCombinations: math.Pow(3, float64(matchCount)),
	}
	if len(slips) == 0 {
		return stats
	}

	stats.MinOdds = math.Inf(1)
	stats.MaxOdds = math.Inf(-1)
	var odds, ev, conf float64
	for _, s := range slips {
		odds += s.TotalOdds
		ev += s.ExpectedValue
		conf += s.TotalConfidence
		stats.MinOdds = math.Min(stats.MinOdds, s.TotalOdds)
		stats.MaxOdds = math.Max(stats.MaxOdds, s.TotalOdds)
	}
	n := float64(len(slips))
	stats.AverageOdds = odds / n
	stats.AverageExpectedValue = ev / n
	stats.AverageConfidence = conf / n
	return stats
}
