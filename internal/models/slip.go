package models

import (
	"strings"

	"github.com/google/uuid"
)

// OutcomeCandidate is one leg of a slip
type OutcomeCandidate struct {
	MatchID     string  `json:"match_id"`
	HomeTeam    string  `json:"home_team,omitempty"`
	AwayTeam    string  `json:"away_team,omitempty"`
	Market      string  `json:"market"`
	Outcome     string  `json:"outcome"`
	Odds        float64 `json:"odds"`
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// CandidateSlip is an ordered accumulator of legs plus strategy scores
type CandidateSlip struct {
	ID                    uuid.UUID          `json:"id"`
	Legs                  []OutcomeCandidate `json:"legs"`
	TotalOdds             float64            `json:"total_odds"`
	TotalConfidence       float64            `json:"total_confidence"`
	ExpectedValue         float64            `json:"expected_value"`
	MonteCarloProbability float64            `json:"monte_carlo_probability"`
	MLScore               float64            `json:"ml_score"`
	Diversity             float64            `json:"diversity"`
	RankScore             float64            `json:"rank_score"`
	KellyFraction         float64            `json:"kelly_fraction"`
	RecommendedStake      float64            `json:"recommended_stake"`
	Fallback              bool               `json:"fallback,omitempty"`
}

// NewCandidateSlip builds a slip from legs, deriving the product totals.
func NewCandidateSlip(legs ...OutcomeCandidate) CandidateSlip {
	slip := CandidateSlip{
		Legs:            make([]OutcomeCandidate, len(legs)),
		TotalOdds:       1,
		TotalConfidence: 1,
	}
	copy(slip.Legs, legs)
	for _, leg := range legs {
		slip.TotalOdds *= leg.Odds
		slip.TotalConfidence *= leg.Confidence
	}
	return slip
}

// Extend returns a new slip with one more leg. The receiver is not modified.
func (s CandidateSlip) Extend(leg OutcomeCandidate) CandidateSlip {
	legs := make([]OutcomeCandidate, len(s.Legs), len(s.Legs)+1)
	copy(legs, s.Legs)
	return CandidateSlip{
		Legs:            append(legs, leg),
		TotalOdds:       s.TotalOdds * leg.Odds,
		TotalConfidence: s.TotalConfidence * leg.Confidence,
	}
}

// CombinedProbability is the product of the leg probabilities.
func (s CandidateSlip) CombinedProbability() float64 {
	if len(s.Legs) == 0 {
		return 0
	}
	p := 1.0
	for _, leg := range s.Legs {
		p *= leg.Probability
	}
	return p
}

// Fingerprint identifies the selection set of a slip.
func (s CandidateSlip) Fingerprint() string {
	var b strings.Builder
	for i, leg := range s.Legs {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(leg.MatchID)
		b.WriteByte(':')
		b.WriteString(leg.Outcome)
	}
	return b.String()
}

// MatchSelection is one match chosen on a master slip, with optional snapshots
// supplied by the caller.
type MatchSelection struct {
	Match      Match       `json:"match"`
	Markets    []string    `json:"markets,omitempty"`
	HomeTeam   *Team       `json:"home_team_snapshot,omitempty"`
	AwayTeam   *Team       `json:"away_team_snapshot,omitempty"`
	HeadToHead *HeadToHead `json:"head_to_head,omitempty"`
	Prediction *Prediction `json:"prediction,omitempty"`
}

// SelectedMarkets returns the known markets chosen for the match, defaulting to 1X2.
func (s MatchSelection) SelectedMarkets() []string {
	markets := make([]string, 0, len(s.Markets))
	seen := make(map[string]bool, len(s.Markets))
	for _, m := range s.Markets {
		if MarketOutcomes(m) == nil || seen[m] {
			continue
		}
		seen[m] = true
		markets = append(markets, m)
	}
	if len(markets) == 0 {
		return []string{Market1X2}
	}
	return markets
}

// MasterSlip is a generation request
type MasterSlip struct {
	ID         uuid.UUID        `json:"id"`
	Stake      float64          `json:"stake" validate:"gte=0"`
	Selections []MatchSelection `json:"matches" validate:"dive"`
}
