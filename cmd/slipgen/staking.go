package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/staking"
)

var (
	kellyProbability float64
	kellyOdds        float64
	kellyBankroll    float64
	arbStake         float64
)

var kellyCmd = &cobra.Command{
	Use:         "kelly",
	Short:       "Recommend a stake with fractional Kelly",
	Annotations: map[string]string{annotationConfig: configOptional},
	RunE: func(cmd *cobra.Command, args []string) error {
		advisor := staking.NewAdvisor(cfg.Staking.KellyFraction, cfg.Staking.MaxStakePerSlip, cfg.Staking.MinStake)
		return printJSON(cmd, advisor.Advise(kellyProbability, kellyOdds, decimal.NewFromFloat(kellyBankroll)))
	},
}

var arbitrageCmd = &cobra.Command{
	Use:         "arbitrage HOME DRAW AWAY",
	Short:       "Check a 1X2 price set for arbitrage and split a stake across it",
	Args:        cobra.ExactArgs(3),
	Annotations: map[string]string{annotationConfig: configOptional},
	RunE: func(cmd *cobra.Command, args []string) error {
		prices := make([]float64, len(args))
		for i, arg := range args {
			price, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", arg, err)
			}
			prices[i] = price
		}
		res, err := staking.Arbitrage(prices[0], prices[1], prices[2], decimal.NewFromFloat(arbStake))
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func init() {
	kellyCmd.Flags().Float64VarP(&kellyProbability, "probability", "p", 0, "Win probability")
	kellyCmd.Flags().Float64VarP(&kellyOdds, "odds", "o", 0, "Decimal odds")
	kellyCmd.Flags().Float64VarP(&kellyBankroll, "bankroll", "b", 1000, "Bankroll to size against")
	_ = kellyCmd.MarkFlagRequired("probability")
	_ = kellyCmd.MarkFlagRequired("odds")

	arbitrageCmd.Flags().Float64VarP(&arbStake, "stake", "s", 100, "Total stake to split")
}
