// Package probability estimates match outcome probabilities from team state,
// head-to-head history and market prices.
package probability

import (
	"math"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// tieEpsilon is the distance under which two probabilities are treated as equal.
const tieEpsilon = 1e-9

// Triple is a home/draw/away probability distribution.
type Triple struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Uniform is returned whenever a distribution cannot be recovered.
var Uniform = Triple{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3}

// Sum returns home+draw+away.
func (t Triple) Sum() float64 {
	return t.Home + t.Draw + t.Away
}

// Normalize rescales the triple to sum to one. Negative or non-finite
// components are treated as zero; a zero total yields Uniform.
func (t Triple) Normalize() Triple {
	h, d, a := finiteNonNegative(t.Home), finiteNonNegative(t.Draw), finiteNonNegative(t.Away)
	total := h + d + a
	if total <= 0 || math.IsInf(total, 0) {
		return Uniform
	}
	return Triple{Home: h / total, Draw: d / total, Away: a / total}
}

// Blend mixes other into t with the given weight on other, then normalizes.
func (t Triple) Blend(other Triple, weight float64) Triple {
	w := clamp(weight, 0, 1)
	return Triple{
		Home: (1-w)*t.Home + w*other.Home,
		Draw: (1-w)*t.Draw + w*other.Draw,
		Away: (1-w)*t.Away + w*other.Away,
	}.Normalize()
}

// Spread is the gap between the most and least likely outcome.
func (t Triple) Spread() float64 {
	return math.Max(t.Home, math.Max(t.Draw, t.Away)) - math.Min(t.Home, math.Min(t.Draw, t.Away))
}

// Outcome returns the most likely outcome. Ties involving draw resolve to draw,
// and a home/away tie also resolves to draw.
func (t Triple) Outcome() models.Outcome {
	switch {
	case t.Home > t.Draw+tieEpsilon && t.Home > t.Away+tieEpsilon:
		return models.OutcomeHome
	case t.Away > t.Draw+tieEpsilon && t.Away > t.Home+tieEpsilon:
		return models.OutcomeAway
	default:
		return models.OutcomeDraw
	}
}

// Probability returns the component for an outcome.
func (t Triple) Probability(outcome models.Outcome) float64 {
	switch outcome {
	case models.OutcomeHome:
		return t.Home
	case models.OutcomeAway:
		return t.Away
	default:
		return t.Draw
	}
}

// Implied converts 1X2 prices into de-margined probabilities.
// ok is false when any price is unusable.
func Implied(odds *models.MarketOdds) (Triple, bool) {
	if odds == nil || !odds.HasMatchOdds() {
		return Triple{}, false
	}
	raw := Triple{Home: 1 / odds.Home, Draw: 1 / odds.Draw, Away: 1 / odds.Away}
	return raw.Normalize(), true
}

// Overround is the bookmaker margin in a 1X2 price set (sum of implied probabilities minus one).
func Overround(odds *models.MarketOdds) float64 {
	if odds == nil || !odds.HasMatchOdds() {
		return 0
	}
	return 1/odds.Home + 1/odds.Draw + 1/odds.Away - 1
}

func finiteNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
