package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/logger"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/metrics"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ratings"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/repository"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/tracing"
)

const defaultIngestionBatchSize = 100

// IngestionReport summarises one ingestion pass.
type IngestionReport struct {
	Pending  int
	Applied  int
	Skipped  int
	Duration time.Duration
}

// ResultIngestionService applies completed match results to team ratings.
type ResultIngestionService struct {
	store     *ratings.Store
	matches   repository.MatchRepository
	teams     repository.TeamRepository
	h2h       repository.HeadToHeadRepository
	batchSize int
	logger    *logrus.Logger
	ratingLog *logger.RatingLogger
	now       func() time.Time
}

// NewResultIngestionService creates an ingestion service. The store must
// persist through the same database the repositories read from.
func NewResultIngestionService(
	store *ratings.Store,
	matches repository.MatchRepository,
	teams repository.TeamRepository,
	h2h repository.HeadToHeadRepository,
	batchSize int,
	log *logrus.Logger,
) *ResultIngestionService {
	if batchSize <= 0 {
		batchSize = defaultIngestionBatchSize
	}
	return &ResultIngestionService{
		store:     store,
		matches:   matches,
		teams:     teams,
		h2h:       h2h,
		batchSize: batchSize,
		logger:    log,
		ratingLog: logger.NewRatingLogger(log),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// LoadState seeds the store with every persisted team and head-to-head record.
func (s *ResultIngestionService) LoadState(ctx context.Context) error {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}
	records, err := s.h2h.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load head-to-head records: %w", err)
	}

	s.store.Load(teams, records)
	metrics.UpdateTeamsTracked(len(teams))
	s.logger.WithFields(logrus.Fields{
		"teams":        len(teams),
		"head_to_head": len(records),
	}).Info("Rating state loaded")
	return nil
}

// SyncCompleted applies one batch of completed, unprocessed matches in kickoff order.
// A version conflict or persistence failure stops the batch; the remaining
// matches stay pending for the next pass.
func (s *ResultIngestionService) SyncCompleted(ctx context.Context) (report IngestionReport, err error) {
	start := time.Now()
	ctx, span := tracing.Start(ctx, "rating_sync")
	defer func() {
		span.Annotate("applied", report.Applied)
		span.End(err)
	}()

	pending, err := s.matches.ListPendingResults(ctx, s.batchSize)
	if err != nil {
		return report, fmt.Errorf("failed to list pending results: %w", err)
	}
	report.Pending = len(pending)

	var batchErr error
	for _, match := range pending {
		if err := ctx.Err(); err != nil {
			batchErr = err
			break
		}

		skipped, err := s.apply(ctx, match)
		if err != nil {
			batchErr = err
			break
		}
		if skipped {
			report.Skipped++
			continue
		}
		report.Applied++
	}

	report.Duration = time.Since(start)
	metrics.RecordIngestionBatch(report.Duration.Seconds())
	metrics.UpdateTeamsTracked(len(s.store.Teams()))
	s.ratingLog.LogIngestionBatch(report.Pending, report.Applied, float64(report.Duration.Milliseconds()))

	return report, batchErr
}

// IngestResult stores a single completed match and applies it immediately.
// A match that has already been applied returns ErrResultAlreadyApplied.
func (s *ResultIngestionService) IngestResult(ctx context.Context, match models.Match) (models.Team, models.Team, error) {
	if match.Result == nil {
		return models.Team{}, models.Team{}, models.NewInputValidationError("result", "match has no result")
	}

	stored, err := s.matches.GetByID(ctx, match.ID)
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		return models.Team{}, models.Team{}, fmt.Errorf("failed to look up match %s: %w", match.ID, err)
	case stored.ProcessedAt != nil:
		metrics.RecordRatingUpdate("duplicate")
		return models.Team{}, models.Team{}, fmt.Errorf("match %s: %w", match.ID, models.ErrResultAlreadyApplied)
	}

	match.ProcessedAt = nil
	if err := s.matches.Upsert(ctx, match); err != nil {
		return models.Team{}, models.Team{}, err
	}

	home, away, err := s.record(ctx, match)
	if err != nil {
		metrics.RecordRatingUpdate(updateStatus(err))
		return home, away, err
	}
	metrics.RecordRatingUpdate("applied")
	return home, away, nil
}

// apply records one result. Matches that can never be applied are marked
// processed and reported as skipped, as are matches another writer applied first.
func (s *ResultIngestionService) apply(ctx context.Context, match models.Match) (bool, error) {
	_, _, err := s.record(ctx, match)
	if err == nil {
		metrics.RecordRatingUpdate("applied")
		return false, nil
	}

	metrics.RecordRatingUpdate(updateStatus(err))
	if errors.Is(err, models.ErrResultAlreadyApplied) {
		return true, nil
	}
	if errors.Is(err, models.ErrInvalidInput) || errors.Is(err, models.ErrTeamNameRequired) {
		s.logger.WithFields(logrus.Fields{
			"match_id": match.ID,
			"error":    err.Error(),
		}).Warn("Skipping unusable match result")
		if markErr := s.matches.MarkProcessed(ctx, match, s.now()); markErr != nil {
			return false, fmt.Errorf("failed to skip match %s: %w", match.ID, markErr)
		}
		return true, nil
	}
	return false, err
}

// record applies match to the store. On a version conflict the cached state is
// reloaded and the result is applied once more.
func (s *ResultIngestionService) record(ctx context.Context, match models.Match) (models.Team, models.Team, error) {
	home, away, err := s.store.RecordResult(ctx, match)
	if !errors.Is(err, models.ErrRatingUpdateConflict) {
		return home, away, err
	}

	applied, refreshErr := s.refresh(ctx, match)
	if refreshErr != nil {
		return home, away, fmt.Errorf("%w (reload failed: %v)", err, refreshErr)
	}
	if applied {
		return home, away, fmt.Errorf("match %s: %w", match.ID, models.ErrResultAlreadyApplied)
	}

	s.logger.WithField("match_id", match.ID).Warn("Rating state was stale, retrying with persisted versions")
	return s.store.RecordResult(ctx, match)
}

// refresh loads the persisted state of both teams and their head-to-head
// record into the store. It reports whether match has already been applied.
func (s *ResultIngestionService) refresh(ctx context.Context, match models.Match) (bool, error) {
	stored, err := s.matches.GetByID(ctx, match.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return false, fmt.Errorf("failed to reload match %s: %w", match.ID, err)
	}

	var teams []models.Team
	for _, name := range []string{match.HomeTeam, match.AwayTeam} {
		team, err := s.teams.GetByName(ctx, name)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to reload team %s: %w", name, err)
		}
		teams = append(teams, *team)
	}

	var records []models.HeadToHead
	record, err := s.h2h.Get(ctx, match.HomeTeam, match.AwayTeam)
	switch {
	case err == nil:
		records = append(records, *record)
	case !errors.Is(err, models.ErrNotFound):
		return false, fmt.Errorf("failed to reload head-to-head: %w", err)
	}

	s.store.Refresh(teams, records)
	return stored != nil && stored.ProcessedAt != nil, nil
}

func updateStatus(err error) string {
	switch {
	case errors.Is(err, models.ErrResultAlreadyApplied):
		return "duplicate"
	case errors.Is(err, models.ErrRatingUpdateConflict):
		return "conflict"
	}
	return "failed"
}
