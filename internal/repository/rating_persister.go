package repository

import (
	"context"
	"time"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ratings"
)

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// RatingPersister stores a rating update for both teams, the head-to-head
// aggregate and the processed match in one transaction.
type RatingPersister struct {
	tx      Transactor
	teams   TeamRepository
	h2h     HeadToHeadRepository
	matches MatchRepository
	now     func() time.Time
}

// NewRatingPersister creates a persister over the given repositories.
func NewRatingPersister(tx Transactor, teams TeamRepository, h2h HeadToHeadRepository, matches MatchRepository) *RatingPersister {
	return &RatingPersister{
		tx:      tx,
		teams:   teams,
		h2h:     h2h,
		matches: matches,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var _ ratings.Persister = (*RatingPersister)(nil)

// SaveResult implements ratings.Persister.
func (p *RatingPersister) SaveResult(ctx context.Context, update ratings.ResultUpdate) error {
	return p.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := p.teams.Save(ctx, update.Home, update.PreviousHomeVersion); err != nil {
			return err
		}
		if err := p.teams.Save(ctx, update.Away, update.PreviousAwayVersion); err != nil {
			return err
		}
		if err := p.h2h.Upsert(ctx, update.HeadToHead); err != nil {
			return err
		}
		return p.matches.MarkProcessed(ctx, update.Match, p.now())
	})
}
