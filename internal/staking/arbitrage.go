package staking

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidOdds is returned for prices that cannot be backed.
var ErrInvalidOdds = errors.New("odds must be greater than 1.0")

// ArbitrageLeg is the stake placed on one outcome.
type ArbitrageLeg struct {
	Outcome string          `json:"outcome"`
	Odds    float64         `json:"odds"`
	Stake   decimal.Decimal `json:"stake"`
	Payout  decimal.Decimal `json:"payout"`
}

// ArbitrageResult describes a 1X2 price set. Legs and Profit are populated
// whether or not an opportunity exists.
type ArbitrageResult struct {
	Exists        bool            `json:"exists"`
	ImpliedSum    float64         `json:"implied_sum"`
	TotalStake    decimal.Decimal `json:"total_stake"`
	Legs          []ArbitrageLeg  `json:"legs"`
	Profit        decimal.Decimal `json:"profit"`
	ProfitPercent float64         `json:"profit_percent"`
}

// Arbitrage splits totalStake across home, draw and away in proportion to each
// implied probability. An opportunity exists when the implied sum is below one;
// Profit is the worst-case payout minus the amount staked.
func Arbitrage(home, draw, away float64, totalStake decimal.Decimal) (ArbitrageResult, error) {
	prices := []struct {
		outcome string
		odds    float64
	}{{"home", home}, {"draw", draw}, {"away", away}}

	implied := decimal.Zero
	for _, p := range prices {
		if p.odds <= 1 {
			return ArbitrageResult{}, fmt.Errorf("%s price %.2f: %w", p.outcome, p.odds, ErrInvalidOdds)
		}
		implied = implied.Add(decimal.NewFromInt(1).Div(decimal.NewFromFloat(p.odds)))
	}

	res := ArbitrageResult{
		Exists:     implied.LessThan(decimal.NewFromInt(1)),
		ImpliedSum: implied.InexactFloat64(),
		TotalStake: decimal.Zero,
		Legs:       make([]ArbitrageLeg, 0, len(prices)),
	}

	var worst decimal.Decimal
	for i, p := range prices {
		odds := decimal.NewFromFloat(p.odds)
		share := decimal.NewFromInt(1).Div(odds).Div(implied)
		stake := totalStake.Mul(share).Round(2)
		payout := stake.Mul(odds)

		res.TotalStake = res.TotalStake.Add(stake)
		res.Legs = append(res.Legs, ArbitrageLeg{Outcome: p.outcome, Odds: p.odds, Stake: stake, Payout: payout})
		if i == 0 || payout.LessThan(worst) {
			worst = payout
		}
	}

	res.Profit = worst.Sub(res.TotalStake).Round(2)
	if res.TotalStake.IsPositive() {
		res.ProfitPercent = res.Profit.Div(res.TotalStake).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return res, nil
}
