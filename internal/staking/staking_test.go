package staking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

func TestKelly(t *testing.T) {
	tests := []struct {
		name     string
		p        float64
		odds     float64
		expected float64
	}{
		{"even money edge", 0.6, 2.0, 0.1},
		{"no edge", 0.5, 2.0, 0},
		{"negative edge floored", 0.3, 2.0, 0},
		{"odds of one", 0.9, 1.0, 0},
		{"odds below one", 0.9, 0.5, 0},
		{"long shot", 0.25, 5.0, 0.5 * (4*0.25 - 0.75) / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Kelly(tt.p, tt.odds), 1e-12)
		})
	}
}

func TestKellyMonotonicInProbability(t *testing.T) {
	for _, odds := range []float64{1.01, 1.5, 2.0, 3.75, 10, 50} {
		prev := -1.0
		for i := 0; i <= 100; i++ {
			k := Kelly(float64(i)/100, odds)
			assert.GreaterOrEqual(t, k, prev)
			assert.GreaterOrEqual(t, k, 0.0)
			prev = k
		}
	}
}

func TestAdvisor(t *testing.T) {
	advisor := NewAdvisor(0.5, 25, 1)
	bankroll := decimal.NewFromInt(100)

	advice := advisor.Advise(0.6, 2.0, bankroll)
	assert.InDelta(t, 0.1, advice.Fraction, 1e-12)
	assert.True(t, advice.Stake.Equal(decimal.NewFromInt(10)), advice.Stake.String())

	capped := advisor.Advise(0.9, 2.0, bankroll)
	assert.True(t, capped.Stake.Equal(decimal.NewFromInt(25)), capped.Stake.String())

	tiny := advisor.Advise(0.51, 2.0, decimal.NewFromInt(10))
	assert.True(t, tiny.Stake.IsZero())

	none := advisor.Advise(0.3, 2.0, bankroll)
	assert.True(t, none.Stake.IsZero())
}

func TestAdviseSlip(t *testing.T) {
	advisor := NewAdvisor(0.5, 0, 0)
	slip := models.NewCandidateSlip(
		models.OutcomeCandidate{MatchID: "m1", Outcome: "home", Odds: 2.0, Probability: 0.8, Confidence: 0.7},
		models.OutcomeCandidate{MatchID: "m2", Outcome: "home", Odds: 2.0, Probability: 0.75, Confidence: 0.7},
	)

	advisor.AdviseSlip(&slip, decimal.NewFromInt(200))
	assert.InDelta(t, Kelly(0.6, 4.0), slip.KellyFraction, 1e-12)
	assert.InDelta(t, 200*Kelly(0.6, 4.0), slip.RecommendedStake, 0.005)
}

func TestArbitrageOpportunity(t *testing.T) {
	res, err := Arbitrage(2.10, 3.40, 4.50, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.True(t, res.Exists)
	assert.Less(t, res.ImpliedSum, 1.0)
	require.Len(t, res.Legs, 3)
	for _, leg := range res.Legs {
		assert.True(t, leg.Payout.GreaterThan(res.TotalStake), "leg %s pays %s", leg.Outcome, leg.Payout)
	}
	assert.True(t, res.Profit.IsPositive())
	assert.InDelta(t, 0.74, res.Profit.InexactFloat64(), 0.02)
	assert.True(t, res.TotalStake.Equal(decimal.NewFromInt(100)), res.TotalStake.String())
}

func TestArbitrageNoOpportunity(t *testing.T) {
	res, err := Arbitrage(1.9, 3.2, 3.8, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.False(t, res.Exists)
	assert.Greater(t, res.ImpliedSum, 1.0)
	assert.True(t, res.Profit.IsNegative())
}

func TestArbitrageRejectsInvalidOdds(t *testing.T) {
	_, err := Arbitrage(2.0, 1.0, 4.0, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInvalidOdds)
}
