package models

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Strategy names a stage of the slip pipeline
type Strategy string

const (
	StrategyMonteCarlo   Strategy = "monte_carlo"
	StrategyCoverage     Strategy = "coverage"
	StrategyMLPrediction Strategy = "ml_prediction"
)

// AllStrategies lists the pipeline stages in execution order.
var AllStrategies = []Strategy{StrategyMonteCarlo, StrategyCoverage, StrategyMLPrediction}

// RiskProfile selects the ranking policy
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskBalanced     RiskProfile = "balanced"
	RiskAggressive   RiskProfile = "aggressive"
	RiskLottery      RiskProfile = "lottery"
)

// IsValid reports whether the profile is a known policy.
func (r RiskProfile) IsValid() bool {
	switch r {
	case RiskConservative, RiskBalanced, RiskAggressive, RiskLottery:
		return true
	}
	return false
}

// Option defaults and bounds
const (
	DefaultMaxSlips          = 100
	MaxSlipsCeiling          = 500
	DefaultMaxCombinations   = 1000
	DefaultMaxMatchesPerSlip = 10
	MinMatchesPerSlip        = 2
	MaxMatchesPerSlipCeiling = 10
	DefaultMinOdds           = MinOdds
	DefaultMaxOdds           = 50.0
)

// GenerationOptions is the recognized subset of the request options bag.
type GenerationOptions struct {
	Strategies        []Strategy  `mapstructure:"strategies" json:"strategies"`
	RiskProfile       RiskProfile `mapstructure:"risk_profile" json:"risk_profile"`
	MinOdds           float64     `mapstructure:"min_odds" json:"min_odds"`
	MaxOdds           float64     `mapstructure:"max_odds" json:"max_odds"`
	MinConfidence     float64     `mapstructure:"min_confidence" json:"min_confidence"`
	Diversification   bool        `mapstructure:"diversification" json:"diversification"`
	MaxSlips          int         `mapstructure:"max_slips" json:"max_slips"`
	MaxMatchesPerSlip int         `mapstructure:"max_matches_per_slip" json:"max_matches_per_slip"`
	MaxCombinations   int         `mapstructure:"max_combinations" json:"max_combinations"`
}

// DefaultGenerationOptions returns the documented default for every key.
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Strategies:        append([]Strategy(nil), AllStrategies...),
		RiskProfile:       RiskBalanced,
		MinOdds:           DefaultMinOdds,
		MaxOdds:           DefaultMaxOdds,
		MinConfidence:     0,
		Diversification:   true,
		MaxSlips:          DefaultMaxSlips,
		MaxMatchesPerSlip: DefaultMaxMatchesPerSlip,
		MaxCombinations:   DefaultMaxCombinations,
	}
}

// ParseGenerationOptions decodes a loosely-typed options bag over base.
// Unknown keys are ignored and scalar values are weakly typed ("10" -> 10).
func ParseGenerationOptions(raw map[string]interface{}, base GenerationOptions) (GenerationOptions, error) {
	opts := base
	opts.Strategies = append([]Strategy(nil), base.Strategies...)
	if len(raw) == 0 {
		return opts.Normalize(), nil
	}

	if _, ok := raw["strategies"]; ok {
		opts.Strategies = nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &opts,
		TagName:          "mapstructure",
	})
	if err != nil {
		return base, fmt.Errorf("failed to create options decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return base, NewInputValidationError("options", err.Error())
	}

	return opts.Normalize(), nil
}

// Normalize clamps every option into its documented range.
func (o GenerationOptions) Normalize() GenerationOptions {
	n := o

	strategies := make([]Strategy, 0, len(AllStrategies))
	for _, known := range AllStrategies {
		for _, s := range o.Strategies {
			if s == known {
				strategies = append(strategies, known)
				break
			}
		}
	}
	if len(strategies) == 0 {
		strategies = append(strategies, AllStrategies...)
	}
	n.Strategies = strategies

	if !n.RiskProfile.IsValid() {
		n.RiskProfile = RiskBalanced
	}
	if n.MinOdds < MinOdds {
		n.MinOdds = MinOdds
	}
	if n.MaxOdds <= 0 {
		n.MaxOdds = DefaultMaxOdds
	}
	if n.MaxOdds < n.MinOdds {
		n.MaxOdds = n.MinOdds
	}
	if n.MinConfidence < 0 {
		n.MinConfidence = 0
	}
	if n.MinConfidence > 1 {
		n.MinConfidence = 1
	}

	switch {
	case n.MaxSlips <= 0:
		n.MaxSlips = DefaultMaxSlips
	case n.MaxSlips > MaxSlipsCeiling:
		n.MaxSlips = MaxSlipsCeiling
	}

	switch {
	case n.MaxMatchesPerSlip <= 0:
		n.MaxMatchesPerSlip = DefaultMaxMatchesPerSlip
	case n.MaxMatchesPerSlip < MinMatchesPerSlip:
		n.MaxMatchesPerSlip = MinMatchesPerSlip
	case n.MaxMatchesPerSlip > MaxMatchesPerSlipCeiling:
		n.MaxMatchesPerSlip = MaxMatchesPerSlipCeiling
	}

	if n.MaxCombinations <= 0 {
		n.MaxCombinations = DefaultMaxCombinations
	}
	return n
}

// Enabled reports whether a pipeline stage is switched on.
func (o GenerationOptions) Enabled(s Strategy) bool {
	for _, enabled := range o.Strategies {
		if enabled == s {
			return true
		}
	}
	return false
}
