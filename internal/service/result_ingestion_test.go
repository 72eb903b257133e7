package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ratings"
)

func playedMatch(id, home, away string, hg, ag int, kickoff time.Time) models.Match {
	return models.Match{
		ID:        id,
		HomeTeam:  home,
		AwayTeam:  away,
		KickoffAt: kickoff,
		Result:    &models.MatchResult{HomeGoals: hg, AwayGoals: ag},
	}
}

func newIngestion(store *ratings.Store, matches *MockMatchRepository) *ResultIngestionService {
	return NewResultIngestionService(store, matches, &MockTeamRepository{}, &MockHeadToHeadRepository{}, 50, quietLogger())
}

func TestSyncCompletedAppliesInOrder(t *testing.T) {
	kickoff := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)
	matches := &MockMatchRepository{}
	matches.On("ListPendingResults", mock.Anything, 50).Return([]models.Match{
		playedMatch("m1", "Arsenal", "Chelsea", 3, 0, kickoff),
		playedMatch("m2", "Chelsea", "Arsenal", 1, 1, kickoff.Add(7*24*time.Hour)),
	}, nil).Once()

	store := ratings.NewStore(nil, quietLogger())
	svc := newIngestion(store, matches)

	report, err := svc.SyncCompleted(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Pending)
	assert.Equal(t, 2, report.Applied)
	assert.Zero(t, report.Skipped)

	arsenal, ok := store.Lookup("Arsenal")
	require.True(t, ok)
	assert.Equal(t, 2, arsenal.MatchesPlayed)
	assert.Equal(t, 1, arsenal.Wins)
	assert.Equal(t, 1, arsenal.Draws)
	assert.Equal(t, 2, store.HeadToHead("Chelsea", "Arsenal").Meetings)
}

func persistedTeam(name string, version int64, played int) *models.Team {
	team := models.NewTeam(name)
	team.Version = version
	team.MatchesPlayed = played
	return &team
}

func withVersions(home, away int64) interface{} {
	return mock.MatchedBy(func(u ratings.ResultUpdate) bool {
		return u.PreviousHomeVersion == home && u.PreviousAwayVersion == away
	})
}

func TestSyncCompletedStopsOnConflict(t *testing.T) {
	kickoff := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)
	first := playedMatch("m1", "Arsenal", "Chelsea", 3, 0, kickoff)
	matches := &MockMatchRepository{}
	matches.On("ListPendingResults", mock.Anything, 50).Return([]models.Match{
		first,
		playedMatch("m2", "Leeds", "Everton", 0, 0, kickoff),
	}, nil).Once()
	matches.On("GetByID", mock.Anything, "m1").Return(&first, nil).Once()

	teams := &MockTeamRepository{}
	teams.On("GetByName", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)
	h2h := &MockHeadToHeadRepository{}
	h2h.On("Get", mock.Anything, "Arsenal", "Chelsea").Return(nil, models.ErrNotFound).Once()

	persister := &MockPersister{}
	persister.On("SaveResult", mock.Anything, mock.Anything).Return(models.ErrRatingUpdateConflict).Twice()

	store := ratings.NewStore(persister, quietLogger())
	svc := NewResultIngestionService(store, matches, teams, h2h, 50, quietLogger())

	report, err := svc.SyncCompleted(context.Background())

	assert.True(t, errors.Is(err, models.ErrRatingUpdateConflict))
	assert.Equal(t, 2, report.Pending)
	assert.Zero(t, report.Applied)
	persister.AssertNumberOfCalls(t, "SaveResult", 2)

	arsenal := store.Team("Arsenal")
	assert.Zero(t, arsenal.MatchesPlayed)
}

func TestSyncCompletedRecoversFromStaleVersions(t *testing.T) {
	kickoff := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)
	second := playedMatch("m2", "Arsenal", "Chelsea", 2, 0, kickoff)
	matches := &MockMatchRepository{}
	matches.On("ListPendingResults", mock.Anything, 50).Return([]models.Match{second}, nil).Once()
	matches.On("GetByID", mock.Anything, "m2").Return(&second, nil).Once()

	teams := &MockTeamRepository{}
	teams.On("GetByName", mock.Anything, "Arsenal").Return(persistedTeam("Arsenal", 1, 1), nil).Once()
	teams.On("GetByName", mock.Anything, "Chelsea").Return(persistedTeam("Chelsea", 1, 1), nil).Once()
	record := models.NewHeadToHead("Arsenal", "Chelsea")
	record.Meetings = 1
	h2h := &MockHeadToHeadRepository{}
	h2h.On("Get", mock.Anything, "Arsenal", "Chelsea").Return(&record, nil).Once()

	persister := &MockPersister{}
	persister.On("SaveResult", mock.Anything, withVersions(0, 0)).Return(models.ErrRatingUpdateConflict).Once()
	persister.On("SaveResult", mock.Anything, withVersions(1, 1)).Return(nil).Once()

	store := ratings.NewStore(persister, quietLogger())
	svc := NewResultIngestionService(store, matches, teams, h2h, 50, quietLogger())

	report, err := svc.SyncCompleted(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)
	persister.AssertExpectations(t)

	arsenal := store.Team("Arsenal")
	assert.Equal(t, int64(2), arsenal.Version)
	assert.Equal(t, 2, arsenal.MatchesPlayed)
	assert.Equal(t, 2, store.HeadToHead("Chelsea", "Arsenal").Meetings)
}

func TestSyncCompletedSkipsMatchAppliedElsewhere(t *testing.T) {
	kickoff := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)
	match := playedMatch("m1", "Arsenal", "Chelsea", 1, 0, kickoff)
	processed := match
	processedAt := kickoff.Add(2 * time.Hour)
	processed.ProcessedAt = &processedAt

	matches := &MockMatchRepository{}
	matches.On("ListPendingResults", mock.Anything, 50).Return([]models.Match{match}, nil).Once()
	matches.On("GetByID", mock.Anything, "m1").Return(&processed, nil).Once()

	teams := &MockTeamRepository{}
	teams.On("GetByName", mock.Anything, "Arsenal").Return(persistedTeam("Arsenal", 1, 1), nil).Once()
	teams.On("GetByName", mock.Anything, "Chelsea").Return(persistedTeam("Chelsea", 1, 1), nil).Once()
	h2h := &MockHeadToHeadRepository{}
	h2h.On("Get", mock.Anything, "Arsenal", "Chelsea").Return(nil, models.ErrNotFound).Once()

	persister := &MockPersister{}
	persister.On("SaveResult", mock.Anything, mock.Anything).Return(models.ErrRatingUpdateConflict).Once()

	store := ratings.NewStore(persister, quietLogger())
	svc := NewResultIngestionService(store, matches, teams, h2h, 50, quietLogger())

	report, err := svc.SyncCompleted(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Applied)
	persister.AssertNumberOfCalls(t, "SaveResult", 1)
	matches.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, store.Team("Arsenal").MatchesPlayed)
}

func TestSyncCompletedSkipsUnusableMatch(t *testing.T) {
	kickoff := time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC)
	broken := playedMatch("bad", "Arsenal", "arsenal", 1, 0, kickoff)
	matches := &MockMatchRepository{}
	matches.On("ListPendingResults", mock.Anything, 50).Return([]models.Match{
		broken,
		playedMatch("m2", "Leeds", "Everton", 2, 2, kickoff),
	}, nil).Once()
	matches.On("MarkProcessed", mock.Anything, broken, mock.AnythingOfType("time.Time")).Return(nil).Once()

	svc := newIngestion(ratings.NewStore(nil, quietLogger()), matches)

	report, err := svc.SyncCompleted(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Applied)
	matches.AssertExpectations(t)
}

func TestSyncCompletedListFailure(t *testing.T) {
	matches := &MockMatchRepository{}
	matches.On("ListPendingResults", mock.Anything, 50).Return(nil, errors.New("connection refused")).Once()

	svc := newIngestion(ratings.NewStore(nil, quietLogger()), matches)

	_, err := svc.SyncCompleted(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestLoadState(t *testing.T) {
	teams := &MockTeamRepository{}
	h2h := &MockHeadToHeadRepository{}
	strong := models.NewTeam("Liverpool")
	strong.Overall = 8.5
	record := models.NewHeadToHead("Liverpool", "Everton")
	record.Meetings = 4

	teams.On("List", mock.Anything).Return([]models.Team{strong}, nil).Once()
	h2h.On("List", mock.Anything).Return([]models.HeadToHead{record}, nil).Once()

	store := ratings.NewStore(nil, quietLogger())
	svc := NewResultIngestionService(store, &MockMatchRepository{}, teams, h2h, 0, quietLogger())

	require.NoError(t, svc.LoadState(context.Background()))

	team, ok := store.Lookup("liverpool")
	require.True(t, ok)
	assert.Equal(t, 8.5, team.Overall)
	assert.Equal(t, 4, store.HeadToHead("Everton", "Liverpool").Meetings)
	assert.Equal(t, defaultIngestionBatchSize, svc.batchSize)
}

func TestIngestResult(t *testing.T) {
	matches := &MockMatchRepository{}
	match := playedMatch("m9", "Spurs", "Fulham", 2, 1, time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC))
	matches.On("GetByID", mock.Anything, "m9").Return(nil, models.ErrNotFound).Once()
	matches.On("Upsert", mock.Anything, match).Return(nil).Once()

	svc := newIngestion(ratings.NewStore(nil, quietLogger()), matches)

	home, away, err := svc.IngestResult(context.Background(), match)

	require.NoError(t, err)
	assert.Equal(t, 1, home.Wins)
	assert.Equal(t, 1, away.Losses)
	matches.AssertExpectations(t)

	unplayed := match
	unplayed.Result = nil
	_, _, err = svc.IngestResult(context.Background(), unplayed)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestIngestResultRejectsAppliedMatch(t *testing.T) {
	kickoff := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	match := playedMatch("m1", "Arsenal", "Chelsea", 2, 0, kickoff)
	processed := match
	processedAt := kickoff.Add(3 * time.Hour)
	processed.ProcessedAt = &processedAt

	matches := &MockMatchRepository{}
	matches.On("GetByID", mock.Anything, "m1").Return(nil, models.ErrNotFound).Once()
	matches.On("Upsert", mock.Anything, match).Return(nil).Once()
	matches.On("GetByID", mock.Anything, "m1").Return(&processed, nil).Once()

	store := ratings.NewStore(nil, quietLogger())
	svc := newIngestion(store, matches)

	_, _, err := svc.IngestResult(context.Background(), match)
	require.NoError(t, err)

	_, _, err = svc.IngestResult(context.Background(), match)
	assert.ErrorIs(t, err, models.ErrResultAlreadyApplied)

	arsenal := store.Team("Arsenal")
	assert.Equal(t, 1, arsenal.MatchesPlayed)
	assert.Equal(t, 1, arsenal.Wins)
	assert.Equal(t, 1, store.HeadToHead("Arsenal", "Chelsea").Meetings)
	matches.AssertExpectations(t)
}

func TestIngestResultLookupFailure(t *testing.T) {
	matches := &MockMatchRepository{}
	matches.On("GetByID", mock.Anything, "m1").Return(nil, errors.New("connection reset")).Once()

	svc := newIngestion(ratings.NewStore(nil, quietLogger()), matches)
	match := playedMatch("m1", "Arsenal", "Chelsea", 2, 0, time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC))

	_, _, err := svc.IngestResult(context.Background(), match)
	assert.ErrorContains(t, err, "connection reset")
	matches.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
