package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SimulationSummary summarises a bankroll simulation over the returned slips
type SimulationSummary struct {
	Iterations          int                `json:"iterations"`
	MeanReturn          float64            `json:"mean_return"`
	StdReturn           float64            `json:"std_return"`
	VaR95               float64            `json:"var_95"`
	VaR99               float64            `json:"var_99"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	ConfidenceIntervals map[string]float64 `json:"confidence_intervals"`
}

// GenerationStatistics is emitted alongside the ranked slips
type GenerationStatistics struct {
	TotalSlips              int                      `json:"total_slips"`
	AverageOdds             float64                  `json:"average_odds"`
	MinOdds                 float64                  `json:"min_odds"`
	MaxOdds                 float64                  `json:"max_odds"`
	AverageExpectedValue    float64                  `json:"average_expected_value"`
	AverageConfidence       float64                  `json:"average_confidence"`
	MatchCount              int                      `json:"match_count"`
	TheoreticalCombinations float64                  `json:"theoretical_combinations"`
	CandidatesGenerated     int                      `json:"candidates_generated"`
	Truncated               bool                     `json:"truncated"`
	RiskProfile             RiskProfile              `json:"risk_profile"`
	StrategiesApplied       []Strategy               `json:"strategies_applied"`
	PredictionSources       map[PredictionSource]int `json:"prediction_sources,omitempty"`
	Simulation              *SimulationSummary       `json:"simulation,omitempty"`
}

// GenerationResult is the envelope returned to callers of the generator
type GenerationResult struct {
	Success       bool                  `json:"success"`
	RunID         uuid.UUID             `json:"run_id"`
	MasterSlipID  uuid.UUID             `json:"master_slip_id"`
	Slips         []CandidateSlip       `json:"slips,omitempty"`
	Statistics    *GenerationStatistics `json:"statistics,omitempty"`
	GeneratedAt   time.Time             `json:"generated_at"`
	Error         string                `json:"error,omitempty"`
	FallbackSlips []CandidateSlip       `json:"fallback_slips,omitempty"`
}

// GenerationRun is the stored record of one generation request
type GenerationRun struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	MasterSlipID uuid.UUID        `db:"master_slip_id" json:"master_slip_id"`
	RequestHash  string           `db:"request_hash" json:"request_hash"`
	RiskProfile  RiskProfile      `db:"risk_profile" json:"risk_profile"`
	SlipCount    int              `db:"slip_count" json:"slip_count"`
	Success      bool             `db:"success" json:"success"`
	Result       GenerationResult `db:"result" json:"result"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}

// NewGenerationRun wraps a result for storage.
func NewGenerationRun(result GenerationResult, requestHash string, profile RiskProfile) GenerationRun {
	slips := len(result.Slips)
	if !result.Success {
		slips = len(result.FallbackSlips)
	}
	return GenerationRun{
		ID:           result.RunID,
		MasterSlipID: result.MasterSlipID,
		RequestHash:  requestHash,
		RiskProfile:  profile,
		SlipCount:    slips,
		Success:      result.Success,
		Result:       result,
		CreatedAt:    result.GeneratedAt,
	}
}

// RequestHash identifies a generation request by its master slip and normalized options.
func RequestHash(master MasterSlip, opts GenerationOptions) (string, error) {
	payload, err := json.Marshal(struct {
		Master  MasterSlip        `json:"master"`
		Options GenerationOptions `json:"options"`
	}{master, opts.Normalize()})
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
