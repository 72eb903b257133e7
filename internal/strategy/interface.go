// Package strategy scores, filters and ranks candidate slips.
package strategy

import (
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// Stage defines one step of the slip pipeline
type Stage interface {
	Name() models.Strategy
	Apply(slips []models.CandidateSlip, opts models.GenerationOptions) []models.CandidateSlip
}
