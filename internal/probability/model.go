package probability

import (
	"math"
	"time"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	eloBase  = 1500.0
	eloScale = 100.0
	eloWidth = 400.0

	goalDiffWeight = 0.1
	momentumWeight = 0.05
	minSide        = 0.05
	maxSide        = 0.9

	baseDraw     = 0.30
	drawPerPoint = 0.05
	minDraw      = 0.1
	maxDraw      = 0.4

	homeShift  = 0.10
	awayShift  = -0.07
	drawShift  = -0.03
	shiftFloor = 0.01

	h2hMinMeetings = 3
	h2hMaxWeight   = 0.5
	h2hFullSample  = 10.0

	marketWeight = 0.3

	spreadWeight   = 0.6
	formWeight     = 0.3
	h2hWeight      = 0.1
	formFullSample = 8.0
	minConfidence  = 0.3
	maxConfidence  = 0.95
)

// ModelVersion tags predictions produced by the statistical model.
const ModelVersion = "statistical-v1"

// Inputs is everything the model reads for one fixture. Zero-value teams
// are replaced with neutral priors.
type Inputs struct {
	Home       models.Team
	Away       models.Team
	HeadToHead *models.HeadToHead
	Odds       *models.MarketOdds
}

// Estimate is a calibrated 1X2 distribution with its confidence.
type Estimate struct {
	Triple
	Confidence float64
	Outcome    models.Outcome
}

// Model is the statistical outcome model. It is stateless and safe for concurrent use.
type Model struct {
	now func() time.Time
}

// NewModel creates a statistical model.
func NewModel() *Model {
	return &Model{now: func() time.Time { return time.Now().UTC() }}
}

// Estimate returns the 1X2 distribution for a fixture. It always yields a valid triple.
func (m *Model) Estimate(in Inputs) Estimate {
	home := withDefaults(in.Home)
	away := withDefaults(in.Away)

	t := strengthTriple(home, away)
	t = applyHomeAdvantage(t)

	meetings := 0
	if in.HeadToHead != nil && in.HeadToHead.Meetings >= h2hMinMeetings {
		meetings = in.HeadToHead.Meetings
		wins, draws, losses := in.HeadToHead.Perspective(home.Name)
		n := float64(meetings)
		empirical := Triple{Home: float64(wins) / n, Draw: float64(draws) / n, Away: float64(losses) / n}
		t = t.Blend(empirical, math.Min(h2hMaxWeight, n/h2hFullSample))
	}

	if market, ok := Implied(in.Odds); ok {
		t = t.Blend(market, marketWeight)
	}

	return Estimate{
		Triple:     t,
		Confidence: confidence(t, home, away, meetings),
		Outcome:    t.Outcome(),
	}
}

// Predict runs Estimate and the scoreline model and packages the result.
func (m *Model) Predict(match models.Match, in Inputs) models.Prediction {
	if in.Home.Name == "" {
		in.Home.Name = match.HomeTeam
	}
	if in.Away.Name == "" {
		in.Away.Name = match.AwayTeam
	}
	est := m.Estimate(in)
	score := NewScoreline(withDefaults(in.Home), withDefaults(in.Away))
	totals := score.OverUnder(models.OverUnderLine25)
	btts := clamp(score.BothTeamsScore(), 0, 1)

	return models.Prediction{
		MatchID:      match.ID,
		Home:         est.Home,
		Draw:         est.Draw,
		Away:         est.Away,
		Confidence:   est.Confidence,
		Outcome:      est.Outcome,
		Source:       models.SourceStatistical,
		ModelVersion: ModelVersion,
		Markets: map[string]float64{
			models.LabelOver25:  totals.Over,
			models.LabelUnder25: totals.Under,
			models.LabelBTTSYes: btts,
			models.LabelBTTSNo:  1 - btts,
		},
		PredictedAt: m.now(),
	}
}

// strengthTriple is the pre-adjustment distribution from ratings, goal difference and momentum.
func strengthTriple(home, away models.Team) Triple {
	homeElo := eloBase + eloScale*(home.Overall-models.DefaultRating)
	awayElo := eloBase + eloScale*(away.Overall-models.DefaultRating)
	expected := 1 / (1 + math.Pow(10, (awayElo-homeElo)/eloWidth))

	adj := (home.GoalDifferencePerMatch()-away.GoalDifferencePerMatch())*goalDiffWeight +
		(home.Momentum-away.Momentum)*momentumWeight

	h := clamp(expected+adj, minSide, maxSide)
	d := clamp(baseDraw-drawPerPoint*math.Abs(home.Overall-away.Overall), minDraw, maxDraw)
	a := clamp(1-h-d, minSide, maxSide)
	return Triple{Home: h, Draw: d, Away: a}.Normalize()
}

func applyHomeAdvantage(t Triple) Triple {
	return Triple{
		Home: math.Max(shiftFloor, t.Home+homeShift),
		Draw: math.Max(shiftFloor, t.Draw+drawShift),
		Away: math.Max(shiftFloor, t.Away+awayShift),
	}.Normalize()
}

func confidence(t Triple, home, away models.Team, meetings int) float64 {
	form := (math.Min(1, float64(home.MatchesPlayed)/formFullSample) +
		math.Min(1, float64(away.MatchesPlayed)/formFullSample)) / 2
	h2h := math.Min(1, float64(meetings)/h2hFullSample)
	return clamp(spreadWeight*t.Spread()+formWeight*form+h2hWeight*h2h, minConfidence, maxConfidence)
}

// withDefaults replaces an unset or corrupt team with the neutral prior.
func withDefaults(team models.Team) models.Team {
	if team.Version == 0 && team.MatchesPlayed == 0 && team.Overall == 0 {
		return models.NewTeam(team.Name)
	}
	if math.IsNaN(team.Overall) || math.IsInf(team.Overall, 0) {
		team.Overall = models.DefaultRating
	}
	if math.IsNaN(team.Momentum) || math.IsInf(team.Momentum, 0) {
		team.Momentum = 0
	}
	team.Overall = clamp(team.Overall, models.MinRating, models.MaxRating)
	team.Momentum = clamp(team.Momentum, -1, 1)
	return team
}
