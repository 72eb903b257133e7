package models

import (
	"time"
)

// MinOdds is the lowest decimal price the engine will ever emit.
const MinOdds = 1.01

// Venue identifies which side of a fixture a team played on
type Venue string

const (
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// Outcome represents a full-time 1X2 result
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// Markets selectable on a master slip.
const (
	Market1X2          = "1X2"
	MarketOverUnder25  = "over_under_2.5"
	MarketBTTS         = "btts"
	MarketDoubleChance = "double_chance"
)

// Outcome labels for the auxiliary markets.
const (
	LabelOver25     = "over_2.5"
	LabelUnder25    = "under_2.5"
	LabelBTTSYes    = "btts_yes"
	LabelBTTSNo     = "btts_no"
	LabelHomeOrDraw = "1X"
	LabelDrawOrAway = "X2"
	LabelHomeOrAway = "12"
)

// OverUnderLine25 is the goal line of the over/under market.
const OverUnderLine25 = 2.5

var marketOutcomes = map[string][]string{
	Market1X2:          {string(OutcomeHome), string(OutcomeDraw), string(OutcomeAway)},
	MarketOverUnder25:  {LabelOver25, LabelUnder25},
	MarketBTTS:         {LabelBTTSYes, LabelBTTSNo},
	MarketDoubleChance: {LabelHomeOrDraw, LabelDrawOrAway, LabelHomeOrAway},
}

// MarketOutcomes lists the outcome labels of a market, nil if the market is unknown.
func MarketOutcomes(market string) []string {
	return marketOutcomes[market]
}

// MarketForLabel returns the market an outcome label belongs to.
func MarketForLabel(label string) string {
	for market, labels := range marketOutcomes {
		for _, l := range labels {
			if l == label {
				return market
			}
		}
	}
	return ""
}

// MarketOdds holds bookmaker prices for a match
type MarketOdds struct {
	Home    float64            `json:"home" validate:"omitempty,gt=1"`
	Draw    float64            `json:"draw" validate:"omitempty,gt=1"`
	Away    float64            `json:"away" validate:"omitempty,gt=1"`
	Markets map[string]float64 `json:"markets,omitempty"`
}

// HasMatchOdds reports whether a complete, usable 1X2 price set is present.
func (o *MarketOdds) HasMatchOdds() bool {
	return o != nil && o.Home > 1 && o.Draw > 1 && o.Away > 1
}

// Price returns the quoted odds for an outcome label.
func (o *MarketOdds) Price(label string) (float64, bool) {
	if o == nil {
		return 0, false
	}
	var price float64
	switch Outcome(label) {
	case OutcomeHome:
		price = o.Home
	case OutcomeDraw:
		price = o.Draw
	case OutcomeAway:
		price = o.Away
	default:
		price = o.Markets[label]
	}
	if price < MinOdds {
		return 0, false
	}
	return price, true
}

// MatchResult is the realized full-time score
type MatchResult struct {
	HomeGoals int `json:"home_goals" validate:"gte=0"`
	AwayGoals int `json:"away_goals" validate:"gte=0"`
}

// Outcome returns the 1X2 outcome of the score.
func (r MatchResult) Outcome() Outcome {
	switch {
	case r.HomeGoals > r.AwayGoals:
		return OutcomeHome
	case r.HomeGoals < r.AwayGoals:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Match represents a fixture between two teams
type Match struct {
	ID          string       `db:"id" json:"id" validate:"required"`
	HomeTeam    string       `db:"home_team" json:"home_team"`
	AwayTeam    string       `db:"away_team" json:"away_team"`
	League      string       `db:"league" json:"league,omitempty"`
	KickoffAt   time.Time    `db:"kickoff_at" json:"kickoff_at"`
	Odds        *MarketOdds  `db:"odds" json:"odds,omitempty"`
	Result      *MatchResult `db:"result" json:"result,omitempty"`
	ProcessedAt *time.Time   `db:"processed_at" json:"processed_at,omitempty"`
}

// IsPlayed reports whether the match has a realized score.
func (m Match) IsPlayed() bool {
	return m.Result != nil
}

// HasTeams reports whether both sides are named.
func (m Match) HasTeams() bool {
	return TeamKey(m.HomeTeam) != "" && TeamKey(m.AwayTeam) != ""
}
