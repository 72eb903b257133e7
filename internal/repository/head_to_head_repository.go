package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/database"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const headToHeadColumns = `team_a, team_b, meetings, team_a_wins, draws, team_b_wins,
	team_a_goals, team_b_goals, recent, updated_at`

// PostgresHeadToHeadRepository implements HeadToHeadRepository for PostgreSQL
type PostgresHeadToHeadRepository struct {
	db *database.DB
}

// NewPostgresHeadToHeadRepository creates a new head-to-head repository
func NewPostgresHeadToHeadRepository(db *database.DB) *PostgresHeadToHeadRepository {
	return &PostgresHeadToHeadRepository{db: db}
}

// Get retrieves the aggregate for a pair in either order
func (r *PostgresHeadToHeadRepository) Get(ctx context.Context, teamA, teamB string) (*models.HeadToHead, error) {
	query := `SELECT ` + headToHeadColumns + ` FROM head_to_head WHERE pair_key = $1`

	h2h, err := scanHeadToHead(r.db.Conn(ctx).QueryRow(ctx, query, models.HeadToHeadKey(teamA, teamB)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get head-to-head: %w", err)
	}

	return h2h, nil
}

// List retrieves every stored aggregate
func (r *PostgresHeadToHeadRepository) List(ctx context.Context) ([]models.HeadToHead, error) {
	query := `SELECT ` + headToHeadColumns + ` FROM head_to_head ORDER BY pair_key`

	rows, err := r.db.Conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query head-to-head: %w", err)
	}
	defer rows.Close()

	var records []models.HeadToHead
	for rows.Next() {
		h2h, err := scanHeadToHead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan head-to-head: %w", err)
		}
		records = append(records, *h2h)
	}

	return records, rows.Err()
}

// Upsert replaces the aggregate for a pair
func (r *PostgresHeadToHeadRepository) Upsert(ctx context.Context, h2h models.HeadToHead) error {
	query := `
		INSERT INTO head_to_head (pair_key, team_a, team_b, meetings, team_a_wins, draws, team_b_wins,
			team_a_goals, team_b_goals, recent, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (pair_key) DO UPDATE SET
			meetings = EXCLUDED.meetings,
			team_a_wins = EXCLUDED.team_a_wins,
			draws = EXCLUDED.draws,
			team_b_wins = EXCLUDED.team_b_wins,
			team_a_goals = EXCLUDED.team_a_goals,
			team_b_goals = EXCLUDED.team_b_goals,
			recent = EXCLUDED.recent,
			updated_at = EXCLUDED.updated_at
	`

	recent := h2h.Recent
	if recent == nil {
		recent = []models.Meeting{}
	}

	_, err := r.db.Conn(ctx).Exec(ctx, query,
		models.HeadToHeadKey(h2h.TeamA, h2h.TeamB), h2h.TeamA, h2h.TeamB,
		h2h.Meetings, h2h.TeamAWins, h2h.Draws, h2h.TeamBWins,
		h2h.TeamAGoals, h2h.TeamBGoals, recent, h2h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert head-to-head: %w", err)
	}

	return nil
}

func scanHeadToHead(row pgx.Row) (*models.HeadToHead, error) {
	h2h := &models.HeadToHead{}
	err := row.Scan(
		&h2h.TeamA, &h2h.TeamB, &h2h.Meetings, &h2h.TeamAWins, &h2h.Draws, &h2h.TeamBWins,
		&h2h.TeamAGoals, &h2h.TeamBGoals, &h2h.Recent, &h2h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return h2h, nil
}
