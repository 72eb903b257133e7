package ml

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/probability"
)

// probabilitySumTolerance is how far a returned 1X2 triple may stray from one before it is rejected.
const probabilitySumTolerance = 0.02

// Client scores a single fixture.
type Client interface {
	Predict(ctx context.Context, req PredictionRequest) (models.Prediction, error)
}

// TeamFeatures is the per-side feature vector sent to the scoring service.
type TeamFeatures struct {
	Name             string  `json:"name"`
	Overall          float64 `json:"overall_rating"`
	Attack           float64 `json:"attack_rating"`
	Defense          float64 `json:"defense_rating"`
	FormRating       float64 `json:"form_rating"`
	Momentum         float64 `json:"momentum"`
	MatchesPlayed    int     `json:"matches_played"`
	AvgGoalsScored   float64 `json:"avg_goals_scored"`
	AvgGoalsConceded float64 `json:"avg_goals_conceded"`
	Form             string  `json:"form"`
}

// NewTeamFeatures extracts the features of a team.
func NewTeamFeatures(t models.Team) TeamFeatures {
	return TeamFeatures{
		Name:             t.Name,
		Overall:          t.Overall,
		Attack:           t.Attack,
		Defense:          t.Defense,
		FormRating:       t.FormRating,
		Momentum:         t.Momentum,
		MatchesPlayed:    t.MatchesPlayed,
		AvgGoalsScored:   t.AvgGoalsScored(),
		AvgGoalsConceded: t.AvgGoalsConceded(),
		Form:             t.Form,
	}
}

// PredictionRequest asks for the outcome distribution of one match.
type PredictionRequest struct {
	MatchID      string             `json:"match_id"`
	KickoffAt    time.Time          `json:"kickoff_at,omitempty"`
	Home         TeamFeatures       `json:"home"`
	Away         TeamFeatures       `json:"away"`
	Odds         *models.MarketOdds `json:"odds,omitempty"`
	ModelVersion string             `json:"model_version,omitempty"`
}

// NewPredictionRequest builds a request from a match and both team states.
func NewPredictionRequest(match models.Match, home, away models.Team, modelVersion string) PredictionRequest {
	return PredictionRequest{
		MatchID:      match.ID,
		KickoffAt:    match.KickoffAt,
		Home:         NewTeamFeatures(home),
		Away:         NewTeamFeatures(away),
		Odds:         match.Odds,
		ModelVersion: modelVersion,
	}
}

// predictionResponse is the wire shape returned by the scoring service.
type predictionResponse struct {
	MatchID      string             `json:"match_id"`
	Home         float64            `json:"home"`
	Draw         float64            `json:"draw"`
	Away         float64            `json:"away"`
	Confidence   float64            `json:"confidence"`
	ModelVersion string             `json:"model_version"`
	Markets      map[string]float64 `json:"markets,omitempty"`
}

// toPrediction validates the response and converts it. The triple is renormalized
// after the tolerance check.
func (r predictionResponse) toPrediction(matchID string, now time.Time) (models.Prediction, error) {
	for name, v := range map[string]float64{"home": r.Home, "draw": r.Draw, "away": r.Away, "confidence": r.Confidence} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			return models.Prediction{}, fmt.Errorf("%w: %s probability %v out of range", ErrInvalidPrediction, name, v)
		}
	}
	raw := probability.Triple{Home: r.Home, Draw: r.Draw, Away: r.Away}
	if math.Abs(raw.Sum()-1) > probabilitySumTolerance {
		return models.Prediction{}, fmt.Errorf("%w: probabilities sum to %.4f", ErrInvalidPrediction, raw.Sum())
	}
	if r.MatchID != "" && r.MatchID != matchID {
		return models.Prediction{}, fmt.Errorf("%w: response for match %s, requested %s", ErrInvalidPrediction, r.MatchID, matchID)
	}

	t := raw.Normalize()
	var markets map[string]float64
	for label, p := range r.Markets {
		if math.IsNaN(p) || p < 0 || p > 1 {
			continue
		}
		if markets == nil {
			markets = make(map[string]float64, len(r.Markets))
		}
		markets[label] = p
	}

	return models.Prediction{
		MatchID:      matchID,
		Home:         t.Home,
		Draw:         t.Draw,
		Away:         t.Away,
		Confidence:   r.Confidence,
		Outcome:      t.Outcome(),
		Source:       models.SourceML,
		ModelVersion: r.ModelVersion,
		Markets:      markets,
		PredictedAt:  now,
	}, nil
}
