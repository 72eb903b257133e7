package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/database"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	errScanTeam = "failed to scan team: %w"

	teamColumns = `id, name, overall_rating, attack_rating, defense_rating, home_strength, away_strength,
		matches_played, wins, draws, losses, goals_scored, goals_conceded, goal_difference, points,
		form, form_history, form_rating, momentum, home_stats, away_stats,
		is_top_team, is_bottom_team, has_home_advantage, is_improving, version, updated_at`
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

// GetByName retrieves a team by its normalized name
func (r *PostgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name_key = $1`

	team, err := scanTeam(r.db.Conn(ctx).QueryRow(ctx, query, models.TeamKey(name)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// List retrieves every team, strongest first
func (r *PostgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY overall_rating DESC, name_key ASC`

	rows, err := r.db.Conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanTeam, err)
		}
		teams = append(teams, *team)
	}

	return teams, rows.Err()
}

// Save inserts or updates a team guarded by its version
func (r *PostgresTeamRepository) Save(ctx context.Context, team models.Team, previousVersion int64) error {
	if models.TeamKey(team.Name) == "" {
		return models.ErrTeamNameRequired
	}

	args := []any{
		team.ID, team.Name, models.TeamKey(team.Name),
		team.Overall, team.Attack, team.Defense, team.HomeStrength, team.AwayStrength,
		team.MatchesPlayed, team.Wins, team.Draws, team.Losses,
		team.GoalsScored, team.GoalsConceded, team.GoalDifference, team.Points,
		team.Form, team.FormHistory, team.FormRating, team.Momentum,
		team.HomeStats, team.AwayStats,
		team.IsTopTeam, team.IsBottomTeam, team.HasHomeAdvantage, team.IsImproving,
		team.Version, team.UpdatedAt,
	}

	var query string
	if previousVersion == 0 {
		query = `
			INSERT INTO teams (id, name, name_key, overall_rating, attack_rating, defense_rating,
				home_strength, away_strength, matches_played, wins, draws, losses,
				goals_scored, goals_conceded, goal_difference, points,
				form, form_history, form_rating, momentum, home_stats, away_stats,
				is_top_team, is_bottom_team, has_home_advantage, is_improving, version, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
				$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
			ON CONFLICT (name_key) DO NOTHING
		`
	} else {
		query = `
			UPDATE teams SET
				name = $2, overall_rating = $4, attack_rating = $5, defense_rating = $6,
				home_strength = $7, away_strength = $8, matches_played = $9, wins = $10,
				draws = $11, losses = $12, goals_scored = $13, goals_conceded = $14,
				goal_difference = $15, points = $16, form = $17, form_history = $18,
				form_rating = $19, momentum = $20, home_stats = $21, away_stats = $22,
				is_top_team = $23, is_bottom_team = $24, has_home_advantage = $25,
				is_improving = $26, version = $27, updated_at = $28
			WHERE id = $1 AND name_key = $3 AND version = $29
		`
		args = append(args, previousVersion)
	}

	tag, err := r.db.Conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save team %s: %w", team.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("team %s at version %d: %w", team.Name, previousVersion, models.ErrRatingUpdateConflict)
	}

	return nil
}

func scanTeam(row pgx.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID, &team.Name, &team.Overall, &team.Attack, &team.Defense,
		&team.HomeStrength, &team.AwayStrength, &team.MatchesPlayed, &team.Wins,
		&team.Draws, &team.Losses, &team.GoalsScored, &team.GoalsConceded,
		&team.GoalDifference, &team.Points, &team.Form, &team.FormHistory,
		&team.FormRating, &team.Momentum, &team.HomeStats, &team.AwayStats,
		&team.IsTopTeam, &team.IsBottomTeam, &team.HasHomeAdvantage, &team.IsImproving,
		&team.Version, &team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}
