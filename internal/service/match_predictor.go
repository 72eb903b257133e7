package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/logger"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/metrics"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ml"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/probability"
)

// Predictor produces an outcome distribution for one fixture.
type Predictor interface {
	Predict(ctx context.Context, match models.Match, in probability.Inputs) models.Prediction
}

// MatchPredictor asks the external scoring service first and falls back to
// the statistical model when it is disabled or degraded. It never fails.
type MatchPredictor struct {
	client       ml.Client
	model        *probability.Model
	modelVersion string
	logger       *logger.MLLogger
}

// NewMatchPredictor creates a predictor. client may be nil to score statistically only.
func NewMatchPredictor(client ml.Client, model *probability.Model, modelVersion string, log *logrus.Logger) *MatchPredictor {
	if model == nil {
		model = probability.NewModel()
	}
	return &MatchPredictor{
		client:       client,
		model:        model,
		modelVersion: modelVersion,
		logger:       logger.NewMLLogger(log),
	}
}

// Predict returns the ML prediction when available, otherwise the statistical estimate.
// Auxiliary markets missing from an ML prediction are filled from the scoreline model.
func (p *MatchPredictor) Predict(ctx context.Context, match models.Match, in probability.Inputs) models.Prediction {
	statistical := p.model.Predict(match, in)
	if p.client == nil {
		metrics.RecordPrediction(string(models.SourceStatistical), statistical.Confidence)
		return statistical
	}

	pred, err := p.client.Predict(ctx, ml.NewPredictionRequest(match, in.Home, in.Away, p.modelVersion))
	if err != nil {
		reason := degradedReason(err)
		p.logger.LogMLFallback(match.ID, reason)
		if !ml.IsDegraded(err) {
			p.logger.LogMLPredictionError(match.ID, err.Error())
		}
		metrics.RecordDegradedPrediction(reason)
		metrics.RecordPrediction(string(models.SourceStatistical), statistical.Confidence)
		return statistical
	}

	// copy: pred may be shared with the prediction cache
	markets := make(map[string]float64, len(statistical.Markets)+len(pred.Markets))
	for label, prob := range statistical.Markets {
		markets[label] = prob
	}
	for label, prob := range pred.Markets {
		markets[label] = prob
	}
	pred.Markets = markets
	metrics.RecordPrediction(string(models.SourceML), pred.Confidence)
	return pred
}

func degradedReason(err error) string {
	switch {
	case errors.Is(err, ml.ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ml.ErrInvalidPrediction):
		return "invalid_prediction"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, ml.ErrMLServiceUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
