package strategy

import (
	"math"
	"sort"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// riskAdjustment scales the combined leg probability per risk profile.
var riskAdjustment = map[models.RiskProfile]float64{
	models.RiskConservative: 0.8,
	models.RiskBalanced:     1.0,
	models.RiskAggressive:   1.2,
	models.RiskLottery:      1.5,
}

// RiskAdjustment returns the Monte Carlo multiplier for a profile.
func RiskAdjustment(profile models.RiskProfile) float64 {
	if adj, ok := riskAdjustment[profile]; ok {
		return adj
	}
	return 1.0
}

// MonteCarloStage assigns monte_carlo_probability and expected_value.
// When the stage is disabled the unadjusted combined probability is used.
type MonteCarloStage struct{}

// Name returns the stage name
func (MonteCarloStage) Name() models.Strategy { return models.StrategyMonteCarlo }

// Apply scores every slip in place
func (MonteCarloStage) Apply(slips []models.CandidateSlip, opts models.GenerationOptions) []models.CandidateSlip {
	adj := 1.0
	if opts.Enabled(models.StrategyMonteCarlo) {
		adj = RiskAdjustment(opts.RiskProfile)
	}
	for i := range slips {
		mcp := math.Min(1, slips[i].CombinedProbability()*adj)
		slips[i].MonteCarloProbability = mcp
		slips[i].ExpectedValue = (slips[i].TotalOdds - 1) * mcp
	}
	return slips
}

// CoverageStage scores outcome diversity and keeps the most varied slips.
type CoverageStage struct{}

// Name returns the stage name
func (CoverageStage) Name() models.Strategy { return models.StrategyCoverage }

// Apply always records diversity. Filtering runs only when the coverage
// strategy is selected and diversification has not been switched off.
func (CoverageStage) Apply(slips []models.CandidateSlip, opts models.GenerationOptions) []models.CandidateSlip {
	for i := range slips {
		slips[i].Diversity = Diversity(slips[i])
	}
	if !opts.Enabled(models.StrategyCoverage) || !opts.Diversification {
		return slips
	}

	sort.SliceStable(slips, func(i, j int) bool {
		if slips[i].Diversity != slips[j].Diversity {
			return slips[i].Diversity > slips[j].Diversity
		}
		return slips[i].Fingerprint() < slips[j].Fingerprint()
	})
	if len(slips) > opts.MaxSlips && opts.MaxSlips > 0 {
		slips = slips[:opts.MaxSlips]
	}
	return slips
}

// Diversity is the number of distinct outcome labels plus the Shannon entropy
// (bits) of the label distribution.
func Diversity(slip models.CandidateSlip) float64 {
	if len(slip.Legs) == 0 {
		return 0
	}
	counts := make(map[string]int, len(slip.Legs))
	for _, leg := range slip.Legs {
		counts[leg.Outcome]++
	}

	n := float64(len(slip.Legs))
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}
	return float64(len(counts)) + entropy
}

// MLStage blends confidence with price into ml_score.
type MLStage struct{}

// Name returns the stage name
func (MLStage) Name() models.Strategy { return models.StrategyMLPrediction }

// Apply scores every slip in place
func (MLStage) Apply(slips []models.CandidateSlip, opts models.GenerationOptions) []models.CandidateSlip {
	enabled := opts.Enabled(models.StrategyMLPrediction)
	for i := range slips {
		if enabled {
			slips[i].MLScore = slips[i].TotalConfidence * math.Log(slips[i].TotalOdds)
		} else {
			slips[i].MLScore = slips[i].TotalConfidence
		}
	}
	return slips
}
