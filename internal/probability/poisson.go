package probability

import (
	"math"
	"sort"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	homeGoalsFactor  = 1.1
	awayGoalsFactor  = 0.9
	minGoalRate      = 0.1
	maxGoalRate      = 6.0
	venueSampleFloor = 3

	// DefaultMaxGoals bounds the scoreline grid per side.
	DefaultMaxGoals = 10
)

// ScoreProbability is the probability of one exact final score.
type ScoreProbability struct {
	HomeGoals   int     `json:"home_goals"`
	AwayGoals   int     `json:"away_goals"`
	Probability float64 `json:"probability"`
}

// TotalsEstimate splits a goal line into over, under and push (integer lines only).
type TotalsEstimate struct {
	Line  float64 `json:"line"`
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
	Push  float64 `json:"push"`
}

// HandicapEstimate is the home-side view of an Asian handicap line.
// Quarter lines report half-stakes as half of Push plus half of Home or Away.
type HandicapEstimate struct {
	Line float64 `json:"line"`
	Home float64 `json:"home"`
	Away float64 `json:"away"`
	Push float64 `json:"push"`
}

// Scoreline models each side's goals as an independent Poisson variable.
type Scoreline struct {
	HomeRate float64
	AwayRate float64
	MaxGoals int
}

// NewScoreline derives goal rates from both teams' scoring records.
func NewScoreline(home, away models.Team) Scoreline {
	lh, la := ExpectedGoals(home, away)
	return Scoreline{HomeRate: lh, AwayRate: la, MaxGoals: DefaultMaxGoals}
}

// ExpectedGoals returns the Poisson rates for home and away.
// Venue records are used once a side has enough games at that venue.
func ExpectedGoals(home, away models.Team) (float64, float64) {
	homeScored, homeConceded := venueAverages(home, models.VenueHome)
	awayScored, awayConceded := venueAverages(away, models.VenueAway)

	lh := (homeScored + awayConceded) / 2 * homeGoalsFactor
	la := (awayScored + homeConceded) / 2 * awayGoalsFactor
	return clamp(lh, minGoalRate, maxGoalRate), clamp(la, minGoalRate, maxGoalRate)
}

func venueAverages(team models.Team, venue models.Venue) (float64, float64) {
	stats := team.Venue(venue)
	if stats.Played >= venueSampleFloor {
		return float64(stats.GoalsFor) / float64(stats.Played), float64(stats.GoalsAgainst) / float64(stats.Played)
	}
	return team.AvgGoalsScored(), team.AvgGoalsConceded()
}

// PoissonPMF returns P(X=k) for X ~ Poisson(lambda), computed in log space.
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 || lambda <= 0 || math.IsNaN(lambda) {
		if k == 0 {
			return 1
		}
		return 0
	}
	lg, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(-lambda + float64(k)*math.Log(lambda) - lg)
}

// Probability returns P(home=h, away=a).
func (s Scoreline) Probability(h, a int) float64 {
	return PoissonPMF(h, s.HomeRate) * PoissonPMF(a, s.AwayRate)
}

func (s Scoreline) maxGoals() int {
	if s.MaxGoals <= 0 {
		return DefaultMaxGoals
	}
	return s.MaxGoals
}

// CorrectScore returns every score on the grid, most likely first.
func (s Scoreline) CorrectScore() []ScoreProbability {
	n := s.maxGoals()
	scores := make([]ScoreProbability, 0, (n+1)*(n+1))
	for h := 0; h <= n; h++ {
		for a := 0; a <= n; a++ {
			scores = append(scores, ScoreProbability{HomeGoals: h, AwayGoals: a, Probability: s.Probability(h, a)})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Probability > scores[j].Probability
	})
	return scores
}

// MatchOdds sums the grid into a 1X2 triple.
func (s Scoreline) MatchOdds() Triple {
	n := s.maxGoals()
	var t Triple
	for h := 0; h <= n; h++ {
		for a := 0; a <= n; a++ {
			p := s.Probability(h, a)
			switch {
			case h > a:
				t.Home += p
			case h < a:
				t.Away += p
			default:
				t.Draw += p
			}
		}
	}
	return t.Normalize()
}

// OverUnder returns totals probabilities for a goal line. Total goals follow
// Poisson(home+away), so no grid truncation applies.
func (s Scoreline) OverUnder(line float64) TotalsEstimate {
	lambda := s.HomeRate + s.AwayRate
	est := TotalsEstimate{Line: line}
	if line < 0 {
		est.Over = 1
		return est
	}

	for k := 0; float64(k) < line; k++ {
		est.Under += PoissonPMF(k, lambda)
	}
	if line == math.Trunc(line) {
		est.Push = PoissonPMF(int(line), lambda)
	}
	est.Under = clamp(est.Under, 0, 1)
	est.Over = clamp(1-est.Under-est.Push, 0, 1)
	return est
}

// BothTeamsScore returns P(home>0 and away>0).
func (s Scoreline) BothTeamsScore() float64 {
	return (1 - math.Exp(-s.HomeRate)) * (1 - math.Exp(-s.AwayRate))
}

// AsianHandicap applies line to the home side. Quarter lines are split into the
// two neighbouring half-stakes and averaged.
func (s Scoreline) AsianHandicap(line float64) HandicapEstimate {
	quarter := math.Abs(math.Mod(line*4, 2)) == 1
	if quarter {
		lo := s.handicap(line - 0.25)
		hi := s.handicap(line + 0.25)
		return HandicapEstimate{
			Line: line,
			Home: (lo.Home + hi.Home) / 2,
			Away: (lo.Away + hi.Away) / 2,
			Push: (lo.Push + hi.Push) / 2,
		}
	}
	est := s.handicap(line)
	est.Line = line
	return est
}

func (s Scoreline) handicap(line float64) HandicapEstimate {
	n := s.maxGoals()
	var est HandicapEstimate
	var mass float64
	for h := 0; h <= n; h++ {
		for a := 0; a <= n; a++ {
			p := s.Probability(h, a)
			mass += p
			margin := float64(h-a) + line
			switch {
			case math.Abs(margin) < tieEpsilon:
				est.Push += p
			case margin > 0:
				est.Home += p
			default:
				est.Away += p
			}
		}
	}
	if mass > 0 {
		est.Home /= mass
		est.Away /= mass
		est.Push /= mass
	}
	est.Line = line
	return est
}
