package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/database"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	errScanMatch = "failed to scan match: %w"

	matchColumns = `id, home_team, away_team, league, kickoff_at, odds, home_goals, away_goals, processed_at`

	upsertMatchQuery = `
		INSERT INTO matches (id, home_team, away_team, league, kickoff_at, odds, home_goals, away_goals, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			league = EXCLUDED.league,
			kickoff_at = EXCLUDED.kickoff_at,
			odds = COALESCE(EXCLUDED.odds, matches.odds),
			home_goals = COALESCE(EXCLUDED.home_goals, matches.home_goals),
			away_goals = COALESCE(EXCLUDED.away_goals, matches.away_goals),
			processed_at = COALESCE(EXCLUDED.processed_at, matches.processed_at)
	`

	markProcessedQuery = upsertMatchQuery + `WHERE matches.processed_at IS NULL`
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Upsert inserts a fixture or refreshes its odds and result
func (r *PostgresMatchRepository) Upsert(ctx context.Context, match models.Match) error {
	if _, err := r.db.Conn(ctx).Exec(ctx, upsertMatchQuery, matchArgs(match, match.ProcessedAt)...); err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", match.ID, err)
	}
	return nil
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.Conn(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// ListPendingResults retrieves completed matches not yet applied to ratings, oldest kickoff first
func (r *PostgresMatchRepository) ListPendingResults(ctx context.Context, limit int) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE home_goals IS NOT NULL AND away_goals IS NOT NULL AND processed_at IS NULL
		ORDER BY kickoff_at ASC, id ASC
		LIMIT $1
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, *match)
	}

	return matches, rows.Err()
}

// MarkProcessed stores the match with its result and the time it was applied.
// A match that is already processed is left untouched and reported as a conflict.
func (r *PostgresMatchRepository) MarkProcessed(ctx context.Context, match models.Match, at time.Time) error {
	if match.Result == nil {
		return fmt.Errorf("%w: match %s has no result", models.ErrInvalidInput, match.ID)
	}
	tag, err := r.db.Conn(ctx).Exec(ctx, markProcessedQuery, matchArgs(match, &at)...)
	if err != nil {
		return fmt.Errorf("failed to mark match %s processed: %w", match.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("match %s already processed: %w", match.ID, models.ErrRatingUpdateConflict)
	}
	return nil
}

func matchArgs(match models.Match, processedAt *time.Time) []any {
	var homeGoals, awayGoals *int
	if match.Result != nil {
		homeGoals, awayGoals = &match.Result.HomeGoals, &match.Result.AwayGoals
	}
	return []any{
		match.ID, match.HomeTeam, match.AwayTeam, match.League, match.KickoffAt,
		match.Odds, homeGoals, awayGoals, processedAt,
	}
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	match := &models.Match{}
	var homeGoals, awayGoals *int
	err := row.Scan(
		&match.ID, &match.HomeTeam, &match.AwayTeam, &match.League, &match.KickoffAt,
		&match.Odds, &homeGoals, &awayGoals, &match.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	if homeGoals != nil && awayGoals != nil {
		match.Result = &models.MatchResult{HomeGoals: *homeGoals, AwayGoals: *awayGoals}
	}
	return match, nil
}
