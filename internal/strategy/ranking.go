package strategy

import (
	"math"
	"sort"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// RankScore is the risk-profile comparator key; higher ranks first.
func RankScore(slip models.CandidateSlip, profile models.RiskProfile) float64 {
	var score float64
	switch profile {
	case models.RiskConservative:
		score = slip.MonteCarloProbability * math.Log(1/slip.TotalOdds)
	case models.RiskAggressive:
		score = slip.TotalOdds * slip.ExpectedValue
	case models.RiskLottery:
		score = slip.TotalOdds * slip.MonteCarloProbability
	default:
		score = slip.ExpectedValue * slip.MLScore
	}
	if math.IsNaN(score) {
		return math.Inf(-1)
	}
	return score
}

// Rank scores and sorts slips in place, best first. Equal scores are ordered
// by fingerprint so ranking a ranked list leaves it unchanged.
func Rank(slips []models.CandidateSlip, profile models.RiskProfile) []models.CandidateSlip {
	for i := range slips {
		slips[i].RankScore = RankScore(slips[i], profile)
	}
	sort.SliceStable(slips, func(i, j int) bool {
		if slips[i].RankScore != slips[j].RankScore {
			return slips[i].RankScore > slips[j].RankScore
		}
		return slips[i].Fingerprint() < slips[j].Fingerprint()
	})
	return slips
}
