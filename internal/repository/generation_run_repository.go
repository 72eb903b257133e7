package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/database"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	generationRunColumns = `id, master_slip_id, request_hash, risk_profile, slip_count, success, result, created_at`

	uniqueViolation = "23505"
)

// PostgresGenerationRunRepository implements GenerationRunRepository for PostgreSQL
type PostgresGenerationRunRepository struct {
	db *database.DB
}

// NewPostgresGenerationRunRepository creates a new generation run repository
func NewPostgresGenerationRunRepository(db *database.DB) *PostgresGenerationRunRepository {
	return &PostgresGenerationRunRepository{db: db}
}

// Create stores a generation run
func (r *PostgresGenerationRunRepository) Create(ctx context.Context, run models.GenerationRun) error {
	query := `
		INSERT INTO generation_runs (` + generationRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Conn(ctx).Exec(ctx, query,
		run.ID, run.MasterSlipID, run.RequestHash, string(run.RiskProfile),
		run.SlipCount, run.Success, run.Result, run.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("generation run %s: %w", run.ID, models.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("failed to create generation run: %w", err)
	}

	return nil
}

// GetByID retrieves a generation run by ID
func (r *PostgresGenerationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error) {
	query := `SELECT ` + generationRunColumns + ` FROM generation_runs WHERE id = $1`

	run, err := scanGenerationRun(r.db.Conn(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generation run: %w", err)
	}

	return run, nil
}

// ListByMasterSlip retrieves the most recent runs for a master slip, newest first
func (r *PostgresGenerationRunRepository) ListByMasterSlip(ctx context.Context, masterSlipID uuid.UUID, limit int) ([]models.GenerationRun, error) {
	query := `
		SELECT ` + generationRunColumns + `
		FROM generation_runs
		WHERE master_slip_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, masterSlipID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation runs: %w", err)
	}
	defer rows.Close()

	var runs []models.GenerationRun
	for rows.Next() {
		run, err := scanGenerationRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

func scanGenerationRun(row pgx.Row) (*models.GenerationRun, error) {
	run := &models.GenerationRun{}
	var profile string
	err := row.Scan(
		&run.ID, &run.MasterSlipID, &run.RequestHash, &profile,
		&run.SlipCount, &run.Success, &run.Result, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.RiskProfile = models.RiskProfile(profile)
	return run, nil
}
