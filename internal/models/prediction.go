package models

import (
	"time"
)

// PredictionSource marks where a probability triple came from
type PredictionSource string

const (
	SourceML          PredictionSource = "ml"
	SourceStatistical PredictionSource = "statistical"
)

// Prediction represents outcome probabilities for one match
type Prediction struct {
	MatchID      string             `json:"match_id"`
	Home         float64            `json:"home" validate:"gte=0,lte=1"`
	Draw         float64            `json:"draw" validate:"gte=0,lte=1"`
	Away         float64            `json:"away" validate:"gte=0,lte=1"`
	Confidence   float64            `json:"confidence" validate:"gte=0,lte=1"`
	Outcome      Outcome            `json:"outcome"`
	Source       PredictionSource   `json:"source"`
	ModelVersion string             `json:"model_version,omitempty"`
	Markets      map[string]float64 `json:"markets,omitempty"`
	PredictedAt  time.Time          `json:"predicted_at"`
}

// Probability returns the model probability of an outcome label.
func (p Prediction) Probability(label string) (float64, bool) {
	switch label {
	case string(OutcomeHome):
		return p.Home, true
	case string(OutcomeDraw):
		return p.Draw, true
	case string(OutcomeAway):
		return p.Away, true
	case LabelHomeOrDraw:
		return p.Home + p.Draw, true
	case LabelDrawOrAway:
		return p.Draw + p.Away, true
	case LabelHomeOrAway:
		return p.Home + p.Away, true
	}
	v, ok := p.Markets[label]
	return v, ok
}
