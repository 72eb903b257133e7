// Package backtest simulates bankroll outcomes of staking a slip portfolio.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// ErrInvalidBankroll is returned when the simulation has nothing to stake.
var ErrInvalidBankroll = errors.New("initial bankroll must be positive")

// MonteCarloConfig configures monte carlo simulation
type MonteCarloConfig struct {
	Iterations      int
	Seed            int64
	CommissionRate  float64
	InitialBankroll float64
}

// MonteCarloResult represents monte carlo outcomes
type MonteCarloResult struct {
	Iterations          int                `json:"iterations"`
	MeanReturn          float64            `json:"mean_return"`
	StdReturn           float64            `json:"std_return"`
	VaR95               float64            `json:"var_95"`
	VaR99               float64            `json:"var_99"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	ConfidenceIntervals map[string]float64 `json:"confidence_intervals"`
	Distribution        []float64          `json:"-"`
}

// SeedFromKey derives a stable, non-zero simulation seed from key.
func SeedFromKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	seed := int64(h.Sum64() &^ (1 << 63))
	if seed == 0 {
		return 1
	}
	return seed
}

func portfolioKey(slips []models.CandidateSlip) string {
	var b strings.Builder
	for _, slip := range slips {
		b.WriteString(slip.Fingerprint())
		b.WriteByte(';')
	}
	return b.String()
}

// RunMonteCarlo stakes every slip's RecommendedStake once per iteration.
// Each iteration draws one result per match, so legs on the same match settle
// consistently across slips. Matches without a prediction fall back to the
// leg's own probability. A zero Seed is derived from the portfolio, so the
// same slips always produce the same statistics.
func RunMonteCarlo(ctx context.Context, slips []models.CandidateSlip, predictions map[string]models.Prediction, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if cfg.InitialBankroll <= 0 {
		return MonteCarloResult{}, ErrInvalidBankroll
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = SeedFromKey(portfolioKey(slips))
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return MonteCarloResult{}, fmt.Errorf("simulation interrupted after %d iterations: %w", i, err)
		}

		draw := newDraw(rng, predictions)
		bankroll := cfg.InitialBankroll
		for _, slip := range slips {
			stake := slip.RecommendedStake
			if stake <= 0 {
				continue
			}
			if stake > bankroll {
				stake = bankroll
			}
			pnl := -stake
			if draw.slipWins(slip) {
				pnl = stake * (slip.TotalOdds - 1)
				if cfg.CommissionRate > 0 {
					pnl -= pnl * cfg.CommissionRate
				}
			}
			bankroll += pnl
			if bankroll <= 0 {
				bankroll = 0
				break
			}
		}
		distribution[i] = bankroll
	}

	mean, std := meanStd(distribution)
	var95 := percentile(distribution, 0.05)
	var99 := percentile(distribution, 0.01)

	return MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanReturn:          (mean - cfg.InitialBankroll) / cfg.InitialBankroll,
		StdReturn:           std / cfg.InitialBankroll,
		VaR95:               (var95 - cfg.InitialBankroll) / cfg.InitialBankroll,
		VaR99:               (var99 - cfg.InitialBankroll) / cfg.InitialBankroll,
		ProbabilityOfProfit: probabilityAbove(distribution, cfg.InitialBankroll),
		ProbabilityOfRuin:   probabilityAtOrBelow(distribution, 0),
		ConfidenceIntervals: CalculateConfidenceIntervals(distribution, []float64{0.9, 0.95, 0.99}),
		Distribution:        distribution,
	}, nil
}

// Summary converts the result into the statistics attached to a generation.
func (m MonteCarloResult) Summary() *models.SimulationSummary {
	return &models.SimulationSummary{
		Iterations:          m.Iterations,
		MeanReturn:          m.MeanReturn,
		StdReturn:           m.StdReturn,
		VaR95:               m.VaR95,
		VaR99:               m.VaR99,
		ProbabilityOfProfit: m.ProbabilityOfProfit,
		ProbabilityOfRuin:   m.ProbabilityOfRuin,
		ConfidenceIntervals: m.ConfidenceIntervals,
	}
}

// draw lazily samples one result per match and one result per auxiliary market.
type draw struct {
	rng         *rand.Rand
	predictions map[string]models.Prediction
	outcomes    map[string]models.Outcome
	markets     map[string]bool
}

func newDraw(rng *rand.Rand, predictions map[string]models.Prediction) *draw {
	return &draw{
		rng:         rng,
		predictions: predictions,
		outcomes:    make(map[string]models.Outcome),
		markets:     make(map[string]bool),
	}
}

func (d *draw) slipWins(slip models.CandidateSlip) bool {
	for _, leg := range slip.Legs {
		if !d.legWins(leg) {
			return false
		}
	}
	return len(slip.Legs) > 0
}

func (d *draw) legWins(leg models.OutcomeCandidate) bool {
	pred, ok := d.predictions[leg.MatchID]
	if !ok {
		return d.bernoulli(leg.MatchID+"|"+leg.Outcome, leg.Probability)
	}

	switch leg.Market {
	case models.MarketOverUnder25, models.MarketBTTS:
		yes := leg.Outcome == models.LabelOver25 || leg.Outcome == models.LabelBTTSYes
		positive := models.LabelBTTSYes
		if leg.Market == models.MarketOverUnder25 {
			positive = models.LabelOver25
		}
		p, _ := pred.Probability(positive)
		hit := d.bernoulli(leg.MatchID+"|"+leg.Market, p)
		return hit == yes
	}

	outcome := d.matchOutcome(leg.MatchID, pred)
	switch leg.Outcome {
	case models.LabelHomeOrDraw:
		return outcome != models.OutcomeAway
	case models.LabelDrawOrAway:
		return outcome != models.OutcomeHome
	case models.LabelHomeOrAway:
		return outcome != models.OutcomeDraw
	default:
		return string(outcome) == leg.Outcome
	}
}

func (d *draw) matchOutcome(matchID string, pred models.Prediction) models.Outcome {
	if o, ok := d.outcomes[matchID]; ok {
		return o
	}
	u := d.rng.Float64() * (pred.Home + pred.Draw + pred.Away)
	o := models.OutcomeAway
	switch {
	case u < pred.Home:
		o = models.OutcomeHome
	case u < pred.Home+pred.Draw:
		o = models.OutcomeDraw
	}
	d.outcomes[matchID] = o
	return o
}

func (d *draw) bernoulli(key string, p float64) bool {
	if v, ok := d.markets[key]; ok {
		return v
	}
	v := d.rng.Float64() < p
	d.markets[key] = v
	return v
}

// CalculateConfidenceIntervals computes confidence intervals for distribution
func CalculateConfidenceIntervals(distribution []float64, levels []float64) map[string]float64 {
	results := make(map[string]float64)
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		low := percentile(distribution, p)
		high := percentile(distribution, 1.0-p)
		results[formatPercent(level)] = high - low
	}
	return results
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
