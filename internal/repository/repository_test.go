package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/database"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ratings"
)

type inlineTransactor struct {
	calls int
}

func (t *inlineTransactor) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	args := m.Called(ctx, name)
	team, _ := args.Get(0).(*models.Team)
	return team, args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	args := m.Called(ctx)
	teams, _ := args.Get(0).([]models.Team)
	return teams, args.Error(1)
}

func (m *MockTeamRepository) Save(ctx context.Context, team models.Team, previousVersion int64) error {
	return m.Called(ctx, team, previousVersion).Error(0)
}

type MockHeadToHeadRepository struct {
	mock.Mock
}

func (m *MockHeadToHeadRepository) Get(ctx context.Context, teamA, teamB string) (*models.HeadToHead, error) {
	args := m.Called(ctx, teamA, teamB)
	h2h, _ := args.Get(0).(*models.HeadToHead)
	return h2h, args.Error(1)
}

func (m *MockHeadToHeadRepository) List(ctx context.Context) ([]models.HeadToHead, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]models.HeadToHead)
	return records, args.Error(1)
}

func (m *MockHeadToHeadRepository) Upsert(ctx context.Context, h2h models.HeadToHead) error {
	return m.Called(ctx, h2h).Error(0)
}

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Upsert(ctx context.Context, match models.Match) error {
	return m.Called(ctx, match).Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	args := m.Called(ctx, id)
	match, _ := args.Get(0).(*models.Match)
	return match, args.Error(1)
}

func (m *MockMatchRepository) ListPendingResults(ctx context.Context, limit int) ([]models.Match, error) {
	args := m.Called(ctx, limit)
	matches, _ := args.Get(0).([]models.Match)
	return matches, args.Error(1)
}

func (m *MockMatchRepository) MarkProcessed(ctx context.Context, match models.Match, at time.Time) error {
	return m.Called(ctx, match, at).Error(0)
}

func testUpdate() ratings.ResultUpdate {
	home := models.NewTeam("Arsenal")
	home.Version = 1
	away := models.NewTeam("Chelsea")
	away.Version = 4
	return ratings.ResultUpdate{
		Match: models.Match{
			ID:        "m1",
			HomeTeam:  "Arsenal",
			AwayTeam:  "Chelsea",
			KickoffAt: time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC),
			Result:    &models.MatchResult{HomeGoals: 2, AwayGoals: 1},
		},
		Home:                home,
		Away:                away,
		PreviousHomeVersion: 0,
		PreviousAwayVersion: 3,
		HeadToHead:          models.NewHeadToHead("Arsenal", "Chelsea"),
	}
}

func TestRatingPersisterSavesEverythingInOneTransaction(t *testing.T) {
	tx := &inlineTransactor{}
	teams := &MockTeamRepository{}
	h2h := &MockHeadToHeadRepository{}
	matches := &MockMatchRepository{}
	update := testUpdate()
	processedAt := time.Date(2024, 3, 2, 17, 0, 0, 0, time.UTC)

	teams.On("Save", mock.Anything, update.Home, int64(0)).Return(nil).Once()
	teams.On("Save", mock.Anything, update.Away, int64(3)).Return(nil).Once()
	h2h.On("Upsert", mock.Anything, update.HeadToHead).Return(nil).Once()
	matches.On("MarkProcessed", mock.Anything, update.Match, processedAt).Return(nil).Once()

	persister := NewRatingPersister(tx, teams, h2h, matches)
	persister.now = func() time.Time { return processedAt }

	require.NoError(t, persister.SaveResult(context.Background(), update))
	assert.Equal(t, 1, tx.calls)
	teams.AssertExpectations(t)
	h2h.AssertExpectations(t)
	matches.AssertExpectations(t)
}

func TestRatingPersisterStopsOnConflict(t *testing.T) {
	teams := &MockTeamRepository{}
	h2h := &MockHeadToHeadRepository{}
	matches := &MockMatchRepository{}
	update := testUpdate()

	teams.On("Save", mock.Anything, update.Home, int64(0)).
		Return(models.ErrRatingUpdateConflict).Once()

	persister := NewRatingPersister(&inlineTransactor{}, teams, h2h, matches)
	err := persister.SaveResult(context.Background(), update)

	assert.ErrorIs(t, err, models.ErrRatingUpdateConflict)
	h2h.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	matches.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRatingPersisterFailsWhenMatchAlreadyProcessed(t *testing.T) {
	teams := &MockTeamRepository{}
	h2h := &MockHeadToHeadRepository{}
	matches := &MockMatchRepository{}
	update := testUpdate()

	teams.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	h2h.On("Upsert", mock.Anything, update.HeadToHead).Return(nil).Once()
	matches.On("MarkProcessed", mock.Anything, update.Match, mock.AnythingOfType("time.Time")).
		Return(models.ErrRatingUpdateConflict).Once()

	persister := NewRatingPersister(&inlineTransactor{}, teams, h2h, matches)
	err := persister.SaveResult(context.Background(), update)

	assert.ErrorIs(t, err, models.ErrRatingUpdateConflict)
	matches.AssertExpectations(t)
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil)
	assert.Error(t, err)
	assert.Nil(t, repos)
}

func TestTeamRepositoryOptimisticSave(t *testing.T) {
	db := database.SetupTestDB(t)
	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	team := models.NewTeam("Brighton & Hove Albion")
	team.Version = 1
	team.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repos.Team.Save(ctx, team, 0))

	err = repos.Team.Save(ctx, team, 0)
	assert.ErrorIs(t, err, models.ErrRatingUpdateConflict)

	team.Overall = 6.2
	team.Version = 2
	require.NoError(t, repos.Team.Save(ctx, team, 1))

	err = repos.Team.Save(ctx, team, 1)
	assert.ErrorIs(t, err, models.ErrRatingUpdateConflict)

	stored, err := repos.Team.GetByName(ctx, "  brighton & hove   albion ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	assert.InDelta(t, 6.2, stored.Overall, 1e-9)

	_, err = repos.Team.GetByName(ctx, "Nobody FC")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMatchRepositoryPendingResults(t *testing.T) {
	db := database.SetupTestDB(t)
	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	kickoff := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	later := models.Match{ID: "late", HomeTeam: "A", AwayTeam: "B", KickoffAt: kickoff.Add(time.Hour),
		Result: &models.MatchResult{HomeGoals: 1, AwayGoals: 1}}
	earlier := models.Match{ID: "early", HomeTeam: "C", AwayTeam: "D", KickoffAt: kickoff,
		Result: &models.MatchResult{HomeGoals: 0, AwayGoals: 2}, Odds: &models.MarketOdds{Home: 2.1, Draw: 3.3, Away: 3.6}}
	unplayed := models.Match{ID: "future", HomeTeam: "E", AwayTeam: "F", KickoffAt: kickoff.Add(-time.Hour)}

	for _, m := range []models.Match{later, earlier, unplayed} {
		require.NoError(t, repos.Match.Upsert(ctx, m))
	}

	pending, err := repos.Match.ListPendingResults(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "early", pending[0].ID)
	assert.Equal(t, "late", pending[1].ID)
	require.NotNil(t, pending[0].Odds)
	assert.InDelta(t, 2.1, pending[0].Odds.Home, 1e-9)

	require.NoError(t, repos.Match.MarkProcessed(ctx, earlier, time.Now().UTC()))
	err = repos.Match.MarkProcessed(ctx, earlier, time.Now().UTC())
	assert.ErrorIs(t, err, models.ErrRatingUpdateConflict)

	pending, err = repos.Match.ListPendingResults(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "late", pending[0].ID)
}

func TestRatingPersisterRollsBackOnConflict(t *testing.T) {
	db := database.SetupTestDB(t)
	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := testUpdate()
	update.PreviousAwayVersion = 7

	err = repos.Ratings.SaveResult(ctx, update)
	require.True(t, errors.Is(err, models.ErrRatingUpdateConflict))

	_, err = repos.Team.GetByName(ctx, "Arsenal")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repos.HeadToHead.Get(ctx, "Chelsea", "Arsenal")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRatingPersisterRejectsProcessedMatch(t *testing.T) {
	db := database.SetupTestDB(t)
	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := testUpdate()
	update.Away.Version = 1
	update.PreviousAwayVersion = 0
	require.NoError(t, repos.Ratings.SaveResult(ctx, update))

	again := update
	again.Home.Version, again.PreviousHomeVersion = 2, 1
	again.Away.Version, again.PreviousAwayVersion = 2, 1
	again.Home.MatchesPlayed = 2

	err = repos.Ratings.SaveResult(ctx, again)
	require.ErrorIs(t, err, models.ErrRatingUpdateConflict)

	stored, err := repos.Team.GetByName(ctx, "Arsenal")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
}

func TestGenerationRunRepositoryCreate(t *testing.T) {
	db := database.SetupTestDB(t)
	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := models.GenerationResult{
		Success:      true,
		RunID:        uuid.New(),
		MasterSlipID: uuid.New(),
		Slips:        []models.CandidateSlip{models.NewCandidateSlip()},
		GeneratedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	run := models.NewGenerationRun(result, "hash", models.RiskBalanced)
	require.NoError(t, repos.GenerationRun.Create(ctx, run))
	assert.ErrorIs(t, repos.GenerationRun.Create(ctx, run), models.ErrDuplicateKey)

	runs, err := repos.GenerationRun.ListByMasterSlip(ctx, result.MasterSlipID, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, models.RiskBalanced, runs[0].RiskProfile)
	assert.Len(t, runs[0].Result.Slips, 1)
}
