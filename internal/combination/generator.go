// Package combination enumerates accumulator slips from per-match outcome candidates.
package combination

import (
	"math"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	// MinLegProbability is the lowest model probability an outcome needs to be offered as a leg.
	MinLegProbability = 0.2

	fairOddsMargin      = 0.95
	fallbackOdds        = 2.0
	fallbackConfidence  = 0.5
	fallbackProbability = 0.5
)

// Result is the candidate pool for one master slip.
type Result struct {
	Slips       []models.CandidateSlip
	Truncated   bool
	MatchesUsed int
	Fallback    bool
}

// FairOdds prices a probability with a bookmaker-style margin.
func FairOdds(p float64) float64 {
	if p <= 0 || math.IsNaN(p) {
		return 0
	}
	return math.Max(models.MinOdds, fairOddsMargin/p)
}

// Candidates returns the viable legs for one match, in market then label order.
func Candidates(sel models.MatchSelection, pred models.Prediction, opts models.GenerationOptions) []models.OutcomeCandidate {
	if pred.Confidence < opts.MinConfidence {
		return nil
	}

	var legs []models.OutcomeCandidate
	for _, market := range sel.SelectedMarkets() {
		for _, label := range models.MarketOutcomes(market) {
			p, ok := pred.Probability(label)
			if !ok || p < MinLegProbability {
				continue
			}
			odds, ok := sel.Match.Odds.Price(label)
			if !ok {
				odds = FairOdds(p)
			}
			if odds < opts.MinOdds || odds > opts.MaxOdds {
				continue
			}
			legs = append(legs, models.OutcomeCandidate{
				MatchID:     sel.Match.ID,
				HomeTeam:    sel.Match.HomeTeam,
				AwayTeam:    sel.Match.AwayTeam,
				Market:      market,
				Outcome:     label,
				Odds:        odds,
				Probability: p,
				Confidence:  pred.Confidence,
			})
		}
	}
	return legs
}

// Generate builds the cross product of every usable match's candidates, breadth first,
// stopping as soon as opts.MaxCombinations slips exist. Matches without candidates are
// skipped; if none remain a single fallback slip is returned.
func Generate(selections []models.MatchSelection, predictions map[string]models.Prediction, opts models.GenerationOptions) Result {
	perMatch := make([][]models.OutcomeCandidate, 0, len(selections))
	for _, sel := range selections {
		if len(perMatch) == opts.MaxMatchesPerSlip {
			break
		}
		pred, ok := predictions[sel.Match.ID]
		if !ok {
			continue
		}
		if legs := Candidates(sel, pred, opts); len(legs) > 0 {
			perMatch = append(perMatch, legs)
		}
	}

	if len(perMatch) == 0 {
		return Result{Slips: []models.CandidateSlip{FallbackSlip(selections, opts.MaxMatchesPerSlip)}, Fallback: true}
	}

	limit := opts.MaxCombinations
	if limit <= 0 {
		limit = models.DefaultMaxCombinations
	}

	res := Result{MatchesUsed: len(perMatch)}
	slips := make([]models.CandidateSlip, 0, minInt(len(perMatch[0]), limit))
	for _, leg := range perMatch[0] {
		if len(slips) == limit {
			res.Truncated = true
			break
		}
		slips = append(slips, models.NewCandidateSlip(leg))
	}

expand:
	for _, legs := range perMatch[1:] {
		if res.Truncated {
			break
		}
		next := make([]models.CandidateSlip, 0, minInt(len(slips)*len(legs), limit))
		for _, slip := range slips {
			for _, leg := range legs {
				if len(next) == limit {
					res.Truncated = true
					slips = next
					break expand
				}
				next = append(next, slip.Extend(leg))
			}
		}
		slips = next
	}

	res.Slips = slips
	return res
}

// FallbackSlip backs the home side of every selection at even money.
func FallbackSlip(selections []models.MatchSelection, maxLegs int) models.CandidateSlip {
	legs := make([]models.OutcomeCandidate, 0, len(selections))
	for _, sel := range selections {
		if maxLegs > 0 && len(legs) == maxLegs {
			break
		}
		legs = append(legs, models.OutcomeCandidate{
			MatchID:     sel.Match.ID,
			HomeTeam:    sel.Match.HomeTeam,
			AwayTeam:    sel.Match.AwayTeam,
			Market:      models.Market1X2,
			Outcome:     string(models.OutcomeHome),
			Odds:        fallbackOdds,
			Probability: fallbackProbability,
			Confidence:  fallbackConfidence,
		})
	}
	slip := models.NewCandidateSlip(legs...)
	slip.Fallback = true
	return slip
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
