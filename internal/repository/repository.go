// Package repository implements PostgreSQL persistence for ratings, fixtures and generation runs.
package repository

import (
	"fmt"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Team          TeamRepository
	HeadToHead    HeadToHeadRepository
	Match         MatchRepository
	GenerationRun GenerationRunRepository
	Ratings       *RatingPersister
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	teams := NewPostgresTeamRepository(db)
	h2h := NewPostgresHeadToHeadRepository(db)
	matches := NewPostgresMatchRepository(db)

	return &Repositories{
		Team:          teams,
		HeadToHead:    h2h,
		Match:         matches,
		GenerationRun: NewPostgresGenerationRunRepository(db),
		Ratings:       NewRatingPersister(db, teams, h2h, matches),
	}, nil
}
