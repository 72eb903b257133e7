package strategy

import (
	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// Pipeline runs the scoring stages in a fixed order, then ranks and truncates.
type Pipeline struct {
	stages []Stage
	logger *logrus.Logger
}

// NewPipeline creates the Monte Carlo, coverage, ML pipeline.
func NewPipeline(logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		stages: []Stage{MonteCarloStage{}, CoverageStage{}, MLStage{}},
		logger: logger,
	}
}

// Run returns the ranked selection. The input slice is not modified.
func (p *Pipeline) Run(slips []models.CandidateSlip, opts models.GenerationOptions) []models.CandidateSlip {
	work := make([]models.CandidateSlip, len(slips))
	copy(work, slips)

	for _, stage := range p.stages {
		before := len(work)
		work = stage.Apply(work, opts)
		if p.logger != nil {
			p.logger.WithFields(logrus.Fields{
				"stage":  stage.Name(),
				"before": before,
				"after":  len(work),
			}).Debug("Pipeline stage applied")
		}
	}

	work = Rank(work, opts.RiskProfile)
	if opts.MaxSlips > 0 && len(work) > opts.MaxSlips {
		work = work[:opts.MaxSlips]
	}
	return work
}
