// Package scheduler runs periodic rating maintenance jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/service"
)

// ResultSyncer applies pending match results to team ratings.
type ResultSyncer interface {
	SyncCompleted(ctx context.Context) (service.IngestionReport, error)
}

// Scheduler manages scheduled rating sync jobs
type Scheduler struct {
	cron        *cron.Cron
	syncer      ResultSyncer
	logger      *logrus.Logger
	mu          sync.RWMutex
	isRunning   bool
	jobIDs      []cron.EntryID
	syncTimeout time.Duration
}

// NewScheduler creates a new scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(syncer ResultSyncer, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		syncer:      syncer,
		logger:      logger,
		jobIDs:      make([]cron.EntryID, 0),
		syncTimeout: 10 * time.Minute,
	}
}

// ScheduleRatingSync schedules result ingestion with a standard five-field
// cron expression or a descriptor such as "@every 5m".
func (s *Scheduler) ScheduleRatingSync(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
		defer cancel()
		_ = s.RunSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled rating sync job")

	return nil
}

// RunSync performs one ingestion pass and logs its outcome.
func (s *Scheduler) RunSync(ctx context.Context) error {
	report, err := s.syncer.SyncCompleted(ctx)
	fields := logrus.Fields{
		"pending":     report.Pending,
		"applied":     report.Applied,
		"skipped":     report.Skipped,
		"duration_ms": report.Duration.Milliseconds(),
	}
	if err != nil {
		s.logger.WithFields(fields).WithError(err).Error("Scheduled rating sync failed")
		return err
	}
	s.logger.WithFields(fields).Debug("Scheduled rating sync completed")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return errors.New("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs to finish, or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	done := s.cron.Stop()
	s.isRunning = false
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop interrupted: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run, zero when stopped.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var next time.Time
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if !entry.Valid() {
			continue
		}
		if next.IsZero() || entry.Next.Before(next) {
			next = entry.Next
		}
	}
	return next
}
