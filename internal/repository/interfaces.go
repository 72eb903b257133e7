package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// TeamRepository defines the interface for team rating state
type TeamRepository interface {
	GetByName(ctx context.Context, name string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	// Save writes team if the stored version still equals previousVersion.
	// A previousVersion of zero means the team must not exist yet.
	Save(ctx context.Context, team models.Team, previousVersion int64) error
}

// HeadToHeadRepository defines the interface for pairwise meeting aggregates
type HeadToHeadRepository interface {
	Get(ctx context.Context, teamA, teamB string) (*models.HeadToHead, error)
	List(ctx context.Context) ([]models.HeadToHead, error)
	Upsert(ctx context.Context, h2h models.HeadToHead) error
}

// MatchRepository defines the interface for fixtures and their results
type MatchRepository interface {
	Upsert(ctx context.Context, match models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	// ListPendingResults returns completed, unprocessed matches in kickoff order.
	ListPendingResults(ctx context.Context, limit int) ([]models.Match, error)
	// MarkProcessed stores match with its result and flags it as applied to ratings.
	// It returns ErrRatingUpdateConflict if the match was already processed.
	MarkProcessed(ctx context.Context, match models.Match, at time.Time) error
}

// GenerationRunRepository defines the interface for stored generation runs
type GenerationRunRepository interface {
	Create(ctx context.Context, run models.GenerationRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error)
	ListByMasterSlip(ctx context.Context, masterSlipID uuid.UUID, limit int) ([]models.GenerationRun, error)
}
