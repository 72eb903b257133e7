package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

func singleLegSlip(matchID, outcome string, odds, stake float64) models.CandidateSlip {
	slip := models.NewCandidateSlip(models.OutcomeCandidate{
		MatchID: matchID, Market: models.Market1X2, Outcome: outcome, Odds: odds, Probability: 0.5, Confidence: 0.5,
	})
	slip.RecommendedStake = stake
	return slip
}

func TestRunMonteCarloDeterministic(t *testing.T) {
	slips := []models.CandidateSlip{singleLegSlip("m1", "home", 2.0, 10)}
	predictions := map[string]models.Prediction{"m1": {Home: 0.6, Draw: 0.2, Away: 0.2}}
	cfg := MonteCarloConfig{Iterations: 1000, Seed: 42, CommissionRate: 0.05, InitialBankroll: 100}

	result, err := RunMonteCarlo(context.Background(), slips, predictions, cfg)
	if err != nil {
		t.Fatalf("RunMonteCarlo failed: %v", err)
	}
	if result.Iterations != 1000 {
		t.Fatalf("expected 1000 iterations")
	}
	if len(result.Distribution) != 1000 {
		t.Fatalf("expected distribution length 1000")
	}

	again, err := RunMonteCarlo(context.Background(), slips, predictions, cfg)
	require.NoError(t, err)
	assert.Equal(t, result.Distribution, again.Distribution)

	assert.InDelta(t, 0.6, result.ProbabilityOfProfit, 0.05)
	assert.Zero(t, result.ProbabilityOfRuin)
	for _, v := range result.Distribution {
		assert.Contains(t, []float64{90, 109.5}, v)
	}
}

func TestRunMonteCarloCorrelatedLegs(t *testing.T) {
	slips := []models.CandidateSlip{
		singleLegSlip("m1", "home", 2.0, 10),
		singleLegSlip("m1", "away", 2.0, 10),
	}
	predictions := map[string]models.Prediction{"m1": {Home: 0.5, Draw: 0, Away: 0.5}}

	result, err := RunMonteCarlo(context.Background(), slips, predictions, MonteCarloConfig{Iterations: 500, Seed: 7, InitialBankroll: 100})
	require.NoError(t, err)

	for _, v := range result.Distribution {
		assert.Equal(t, 100.0, v)
	}
	assert.Zero(t, result.StdReturn)
}

func TestRunMonteCarloDoubleChanceAndTotals(t *testing.T) {
	dc := models.NewCandidateSlip(models.OutcomeCandidate{MatchID: "m1", Market: models.MarketDoubleChance, Outcome: models.LabelHomeOrDraw, Odds: 1.2, Probability: 1})
	dc.RecommendedStake = 10
	over := models.NewCandidateSlip(models.OutcomeCandidate{MatchID: "m1", Market: models.MarketOverUnder25, Outcome: models.LabelUnder25, Odds: 1.5, Probability: 1})
	over.RecommendedStake = 10

	predictions := map[string]models.Prediction{"m1": {Home: 0.7, Draw: 0.3, Away: 0, Markets: map[string]float64{models.LabelOver25: 0}}}
	result, err := RunMonteCarlo(context.Background(), []models.CandidateSlip{dc, over}, predictions, MonteCarloConfig{Iterations: 200, Seed: 3, InitialBankroll: 100})
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.ProbabilityOfProfit)
	assert.InDelta(t, 0.07, result.MeanReturn, 1e-9)
}

func TestRunMonteCarloRuin(t *testing.T) {
	slips := []models.CandidateSlip{singleLegSlip("m1", "away", 5.0, 100)}
	predictions := map[string]models.Prediction{"m1": {Home: 1}}

	result, err := RunMonteCarlo(context.Background(), slips, predictions, MonteCarloConfig{Iterations: 50, Seed: 1, InitialBankroll: 100})
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.ProbabilityOfRuin)
	assert.InDelta(t, -1.0, result.VaR95, 1e-12)
}

func TestRunMonteCarloValidation(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), nil, nil, MonteCarloConfig{})
	assert.ErrorIs(t, err, ErrInvalidBankroll)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunMonteCarlo(ctx, nil, nil, MonteCarloConfig{InitialBankroll: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateConfidenceIntervals(t *testing.T) {
	values := make([]float64, 101)
	for i := range values {
		values[i] = float64(i)
	}
	ci := CalculateConfidenceIntervals(values, []float64{0.9})
	assert.InDelta(t, 90.0, ci["90%"], 1.0)
}

func TestSummary(t *testing.T) {
	res := MonteCarloResult{Iterations: 10, MeanReturn: 0.1, VaR95: -0.2, VaR99: -0.6, ConfidenceIntervals: map[string]float64{"95%": 3}}
	summary := res.Summary()
	assert.Equal(t, 10, summary.Iterations)
	assert.Equal(t, -0.2, summary.VaR95)
	assert.Equal(t, -0.6, summary.VaR99)
	assert.Equal(t, 3.0, summary.ConfidenceIntervals["95%"])
}

func TestRunMonteCarloZeroSeedIsStable(t *testing.T) {
	slips := []models.CandidateSlip{
		singleLegSlip("m1", "home", 2.0, 10),
		singleLegSlip("m2", "away", 3.5, 5),
	}
	predictions := map[string]models.Prediction{
		"m1": {Home: 0.5, Draw: 0.3, Away: 0.2},
		"m2": {Home: 0.4, Draw: 0.3, Away: 0.3},
	}
	cfg := MonteCarloConfig{Iterations: 400, InitialBankroll: 100}

	first, err := RunMonteCarlo(context.Background(), slips, predictions, cfg)
	require.NoError(t, err)
	second, err := RunMonteCarlo(context.Background(), slips, predictions, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Distribution, second.Distribution)
	assert.Equal(t, first.Summary(), second.Summary())
}

func TestSeedFromKey(t *testing.T) {
	assert.Equal(t, SeedFromKey("abc"), SeedFromKey("abc"))
	assert.NotEqual(t, SeedFromKey("abc"), SeedFromKey("abd"))
	assert.Positive(t, SeedFromKey(""))
}
