// Package staking sizes stakes with the Kelly criterion and detects arbitrage.
package staking

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// DefaultKellyFraction is the multiplier applied to the full Kelly stake.
const DefaultKellyFraction = 0.5

// Kelly returns the half-Kelly fraction of bankroll to stake, never negative.
func Kelly(p, odds float64) float64 {
	return FractionalKelly(p, odds, DefaultKellyFraction)
}

// FractionalKelly scales the full Kelly fraction by fraction.
func FractionalKelly(p, odds, fraction float64) float64 {
	if odds <= 1 || p <= 0 || math.IsNaN(p) || math.IsNaN(odds) || fraction <= 0 {
		return 0
	}
	p = math.Min(p, 1)
	b := odds - 1
	kelly := (b*p - (1 - p)) / b
	if kelly <= 0 {
		return 0
	}
	return fraction * kelly
}

// StakeAdvice is a recommended stake and the bankroll fraction behind it.
type StakeAdvice struct {
	Fraction float64         `json:"fraction"`
	Stake    decimal.Decimal `json:"stake"`
}

// Advisor turns Kelly fractions into money amounts.
type Advisor struct {
	kellyFraction float64
	maxStake      decimal.Decimal
	minStake      decimal.Decimal
}

// NewAdvisor creates an advisor. A zero maxStake disables the cap; stakes
// below minStake are rounded down to zero.
func NewAdvisor(kellyFraction, maxStake, minStake float64) *Advisor {
	if kellyFraction <= 0 || kellyFraction > 1 {
		kellyFraction = DefaultKellyFraction
	}
	return &Advisor{
		kellyFraction: kellyFraction,
		maxStake:      decimal.NewFromFloat(math.Max(0, maxStake)),
		minStake:      decimal.NewFromFloat(math.Max(0, minStake)),
	}
}

// Advise sizes a single bet against bankroll.
func (a *Advisor) Advise(p, odds float64, bankroll decimal.Decimal) StakeAdvice {
	fraction := FractionalKelly(p, odds, a.kellyFraction)
	if fraction == 0 || !bankroll.IsPositive() {
		return StakeAdvice{Fraction: fraction, Stake: decimal.Zero}
	}

	stake := bankroll.Mul(decimal.NewFromFloat(fraction)).Round(2)
	if a.maxStake.IsPositive() && stake.GreaterThan(a.maxStake) {
		stake = a.maxStake
	}
	if stake.LessThan(a.minStake) {
		stake = decimal.Zero
	}
	return StakeAdvice{Fraction: fraction, Stake: stake}
}

// AdviseSlip records stake advice on a slip, treating it as one bet at its
// combined odds and unadjusted combined probability.
func (a *Advisor) AdviseSlip(slip *models.CandidateSlip, bankroll decimal.Decimal) {
	advice := a.Advise(slip.CombinedProbability(), slip.TotalOdds, bankroll)
	slip.KellyFraction = advice.Fraction
	slip.RecommendedStake = advice.Stake.InexactFloat64()
}
