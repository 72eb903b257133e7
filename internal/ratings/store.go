package ratings

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/logger"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// ResultUpdate is everything one applied result changes.
type ResultUpdate struct {
	Match               models.Match
	Home                models.Team
	Away                models.Team
	PreviousHomeVersion int64
	PreviousAwayVersion int64
	HeadToHead          models.HeadToHead
}

// Persister writes a ResultUpdate as a single transaction.
type Persister interface {
	SaveResult(ctx context.Context, update ResultUpdate) error
}

type teamEntry struct {
	mu   sync.Mutex
	team models.Team
}

// Store holds the current state of every known team. Result application is
// serialized per team; results for disjoint teams proceed in parallel.
type Store struct {
	mu        sync.RWMutex
	teams     map[string]*teamEntry
	h2h       map[string]models.HeadToHead
	persister Persister
	logger    *logger.RatingLogger
}

// NewStore creates an empty store. persister may be nil for in-memory use.
func NewStore(persister Persister, log *logrus.Logger) *Store {
	return &Store{
		teams:     make(map[string]*teamEntry),
		h2h:       make(map[string]models.HeadToHead),
		persister: persister,
		logger:    logger.NewRatingLogger(log),
	}
}

// Load seeds the store with previously persisted state.
func (s *Store) Load(teams []models.Team, h2h []models.HeadToHead) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range teams {
		key := models.TeamKey(t.Name)
		if key == "" {
			continue
		}
		s.teams[key] = &teamEntry{team: t}
	}
	for _, h := range h2h {
		s.h2h[models.HeadToHeadKey(h.TeamA, h.TeamB)] = h
	}
}

// Refresh overwrites the cached state of the given teams and head-to-head
// records with their persisted values. Existing entries are updated in place
// under their own lock.
func (s *Store) Refresh(teams []models.Team, h2h []models.HeadToHead) {
	for _, t := range teams {
		if models.TeamKey(t.Name) == "" {
			continue
		}
		e := s.entry(t.Name)
		e.mu.Lock()
		e.team = t
		e.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range h2h {
		s.h2h[models.HeadToHeadKey(h.TeamA, h.TeamB)] = h
	}
}

// entry returns the entry for a team, creating it with neutral ratings on first reference.
func (s *Store) entry(name string) *teamEntry {
	key := models.TeamKey(name)

	s.mu.RLock()
	e, ok := s.teams[key]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.teams[key]; ok {
		return e
	}
	e = &teamEntry{team: models.NewTeam(name)}
	s.teams[key] = e
	return e
}

// Team returns a snapshot of a team's state, registering unknown names.
func (s *Store) Team(name string) models.Team {
	if models.TeamKey(name) == "" {
		return models.NewTeam(name)
	}
	e := s.entry(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.team
}

// Lookup returns a team's state without registering it.
func (s *Store) Lookup(name string) (models.Team, bool) {
	s.mu.RLock()
	e, ok := s.teams[models.TeamKey(name)]
	s.mu.RUnlock()
	if !ok {
		return models.Team{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.team, true
}

// Teams returns every known team ordered by overall rating, strongest first.
func (s *Store) Teams() []models.Team {
	s.mu.RLock()
	entries := make([]*teamEntry, 0, len(s.teams))
	for _, e := range s.teams {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	teams := make([]models.Team, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		teams = append(teams, e.team)
		e.mu.Unlock()
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Overall != teams[j].Overall {
			return teams[i].Overall > teams[j].Overall
		}
		return models.TeamKey(teams[i].Name) < models.TeamKey(teams[j].Name)
	})
	return teams
}

// HeadToHead returns the aggregate for a pair, empty if they have never met.
func (s *Store) HeadToHead(a, b string) models.HeadToHead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.h2h[models.HeadToHeadKey(a, b)]; ok {
		return h
	}
	return models.NewHeadToHead(a, b)
}

// RecordResult applies a played match to both teams and their head-to-head record.
// Either every change becomes visible or none does.
func (s *Store) RecordResult(ctx context.Context, match models.Match) (models.Team, models.Team, error) {
	if match.Result == nil {
		return models.Team{}, models.Team{}, fmt.Errorf("%w: match %s has no result", models.ErrInvalidInput, match.ID)
	}
	if !match.HasTeams() {
		return models.Team{}, models.Team{}, fmt.Errorf("match %s: %w", match.ID, models.ErrTeamNameRequired)
	}
	homeKey, awayKey := models.TeamKey(match.HomeTeam), models.TeamKey(match.AwayTeam)
	if homeKey == awayKey {
		return models.Team{}, models.Team{}, fmt.Errorf("%w: match %s has the same team on both sides", models.ErrInvalidInput, match.ID)
	}

	home := s.entry(match.HomeTeam)
	away := s.entry(match.AwayTeam)

	// lock in key order so opposite fixtures cannot deadlock
	first, second := home, away
	if awayKey < homeKey {
		first, second = away, home
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	prevHome, prevAway := home.team, away.team
	playedAt := match.KickoffAt
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}

	hg, ag := match.Result.HomeGoals, match.Result.AwayGoals
	nextHome := ApplyResult(prevHome, prevAway.Overall, hg, ag, models.VenueHome, playedAt)
	nextAway := ApplyResult(prevAway, prevHome.Overall, ag, hg, models.VenueAway, playedAt)

	h2hKey := models.HeadToHeadKey(match.HomeTeam, match.AwayTeam)
	s.mu.RLock()
	prevH2H, ok := s.h2h[h2hKey]
	s.mu.RUnlock()
	if !ok {
		prevH2H = models.NewHeadToHead(match.HomeTeam, match.AwayTeam)
	}
	nextH2H := ApplyMeeting(prevH2H, match)

	if s.persister != nil {
		update := ResultUpdate{
			Match:               match,
			Home:                nextHome,
			Away:                nextAway,
			PreviousHomeVersion: prevHome.Version,
			PreviousAwayVersion: prevAway.Version,
			HeadToHead:          nextH2H,
		}
		if err := s.persister.SaveResult(ctx, update); err != nil {
			s.logger.LogPersistenceFailure(match.ID, err)
			return prevHome, prevAway, fmt.Errorf("failed to persist result for match %s: %w", match.ID, err)
		}
	}

	home.team = nextHome
	away.team = nextAway
	s.mu.Lock()
	s.h2h[h2hKey] = nextH2H
	s.mu.Unlock()

	s.logger.LogResultApplied(match.ID, prevHome, nextHome)
	s.logger.LogResultApplied(match.ID, prevAway, nextAway)

	return nextHome, nextAway, nil
}
