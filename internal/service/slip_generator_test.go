package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/cache"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/probability"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ratings"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/staking"
)

type panickingPredictor struct{}

func (panickingPredictor) Predict(context.Context, models.Match, probability.Inputs) models.Prediction {
	panic("model exploded")
}

func testMatch(id, home, away string) models.Match {
	return models.Match{
		ID:        id,
		HomeTeam:  home,
		AwayTeam:  away,
		KickoffAt: time.Date(2024, 4, 6, 15, 0, 0, 0, time.UTC),
		Odds:      &models.MarketOdds{Home: 2.1, Draw: 3.4, Away: 3.6},
	}
}

func testMaster(matches ...models.Match) models.MasterSlip {
	master := models.MasterSlip{
		ID:    uuid.MustParse("7d7f5a7e-6c0b-4f0e-8a53-0a1f2b3c4d5e"),
		Stake: 100,
	}
	for _, m := range matches {
		master.Selections = append(master.Selections, models.MatchSelection{Match: m})
	}
	return master
}

func threeMatchMaster() models.MasterSlip {
	return testMaster(
		testMatch("m1", "Arsenal", "Chelsea"),
		testMatch("m2", "Leeds", "Everton"),
		testMatch("m3", "Fulham", "Brentford"),
	)
}

func fixedPrediction(matchID string) models.Prediction {
	return models.Prediction{
		MatchID:    matchID,
		Home:       0.45,
		Draw:       0.30,
		Away:       0.25,
		Confidence: 0.6,
		Outcome:    models.OutcomeHome,
		Source:     models.SourceML,
	}
}

func newTestGenerator(predictor Predictor, teams TeamSource, runs *MockGenerationRunRepository, resultCache *MockGenerationCache, cfg SlipGeneratorConfig) *SlipGenerator {
	if cfg.Defaults.MaxSlips == 0 {
		cfg.Defaults = models.DefaultGenerationOptions()
	}
	g := NewSlipGenerator(predictor, teams, staking.NewAdvisor(0.5, 50, 1), nil, nil, cfg, quietLogger())
	if runs != nil {
		g.runs = runs
	}
	if resultCache != nil {
		g.cache = resultCache
	}
	g.now = func() time.Time { return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func statisticalGenerator() *SlipGenerator {
	return newTestGenerator(NewMatchPredictor(nil, nil, "", quietLogger()), nil, nil, nil, SlipGeneratorConfig{})
}

func TestGenerateRejectsSingleMatch(t *testing.T) {
	g := statisticalGenerator()

	_, err := g.Generate(context.Background(), testMaster(testMatch("m1", "Arsenal", "Chelsea")), nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
	var verr *models.InputValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "matches", verr.Field)
}

func TestGenerateRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		master  models.MasterSlip
		options map[string]interface{}
	}{
		{
			name:    "options",
			master:  threeMatchMaster(),
			options: map[string]interface{}{"max_slips": "many"},
		},
		{
			name:   "missing match id",
			master: testMaster(testMatch("", "Arsenal", "Chelsea"), testMatch("m2", "Leeds", "Everton")),
		},
		{
			name: "negative stake",
			master: func() models.MasterSlip {
				m := threeMatchMaster()
				m.Stake = -5
				return m
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := statisticalGenerator().Generate(context.Background(), tt.master, tt.options)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestGenerateStatisticalSuccess(t *testing.T) {
	g := statisticalGenerator()

	result, err := g.Generate(context.Background(), threeMatchMaster(), map[string]interface{}{
		"max_slips":    5,
		"risk_profile": "aggressive",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, threeMatchMaster().ID, result.MasterSlipID)
	require.NotEmpty(t, result.Slips)
	assert.LessOrEqual(t, len(result.Slips), 5)

	for _, slip := range result.Slips {
		assert.NotEqual(t, uuid.Nil, slip.ID)
		assert.GreaterOrEqual(t, slip.TotalOdds, models.MinOdds)
		assert.GreaterOrEqual(t, slip.RecommendedStake, 0.0)
		assert.LessOrEqual(t, slip.RecommendedStake, 50.0)
		assert.False(t, slip.Fallback)
	}

	require.NotNil(t, result.Statistics)
	assert.Equal(t, len(result.Slips), result.Statistics.TotalSlips)
	assert.Equal(t, 3, result.Statistics.MatchCount)
	assert.Equal(t, 27.0, result.Statistics.TheoreticalCombinations)
	assert.Equal(t, models.RiskAggressive, result.Statistics.RiskProfile)
	assert.Equal(t, 3, result.Statistics.PredictionSources[models.SourceStatistical])
	assert.Nil(t, result.Statistics.Simulation)
}

func TestGenerateUsesSuppliedPredictions(t *testing.T) {
	predictor := &MockPredictor{}
	g := newTestGenerator(predictor, nil, nil, nil, SlipGeneratorConfig{})

	master := threeMatchMaster()
	for i := range master.Selections {
		pred := fixedPrediction(master.Selections[i].Match.ID)
		pred.Source = ""
		master.Selections[i].Prediction = &pred
	}

	result, err := g.Generate(context.Background(), master, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Statistics.PredictionSources[models.SourceML])
	// 3 viable outcomes per match
	assert.Equal(t, 27, result.Statistics.CandidatesGenerated)
	predictor.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateResolvesTeamsFromStore(t *testing.T) {
	strong := models.NewTeam("Arsenal")
	strong.Overall = 9
	strong.MatchesPlayed = 20
	store := ratings.NewStore(nil, quietLogger())
	store.Load([]models.Team{strong}, nil)

	predictor := &MockPredictor{}
	predictor.On("Predict", mock.Anything, mock.MatchedBy(func(m models.Match) bool { return m.ID == "m1" }),
		mock.MatchedBy(func(in probability.Inputs) bool {
			return in.Home.Overall == 9 && in.Away.Overall == models.DefaultRating
		})).Return(fixedPrediction("m1")).Once()
	predictor.On("Predict", mock.Anything, mock.MatchedBy(func(m models.Match) bool { return m.ID == "m2" }),
		mock.Anything).Return(fixedPrediction("m2")).Once()

	g := newTestGenerator(predictor, store, nil, nil, SlipGeneratorConfig{})
	master := testMaster(testMatch("m1", "Arsenal", "Chelsea"), testMatch("m2", "Leeds", "Everton"))

	result, err := g.Generate(context.Background(), master, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	predictor.AssertExpectations(t)
}

func TestGenerateFallsBackWhenEveryOutcomeIsFiltered(t *testing.T) {
	g := statisticalGenerator()

	result, err := g.Generate(context.Background(), threeMatchMaster(), map[string]interface{}{
		"min_odds": 40,
		"max_odds": 50,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Slips, 1)
	slip := result.Slips[0]
	assert.True(t, slip.Fallback)
	require.Len(t, slip.Legs, 3)
	for _, leg := range slip.Legs {
		assert.Equal(t, string(models.OutcomeHome), leg.Outcome)
		assert.Equal(t, 2.0, leg.Odds)
		assert.Equal(t, 0.5, leg.Confidence)
	}
	assert.InDelta(t, 8.0, slip.TotalOdds, 1e-9)
}

func TestGenerateRejectsWhenNoTeamsResolvable(t *testing.T) {
	g := statisticalGenerator()
	master := testMaster(testMatch("m1", "", ""), testMatch("m2", "", ""))

	_, err := g.Generate(context.Background(), master, map[string]interface{}{
		"min_odds": 40,
		"max_odds": 50,
	})

	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGenerateRecoversFromPanic(t *testing.T) {
	g := newTestGenerator(panickingPredictor{}, nil, nil, nil, SlipGeneratorConfig{})

	result, err := g.Generate(context.Background(), threeMatchMaster(), nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "model exploded")
	assert.Empty(t, result.Slips)
	require.Len(t, result.FallbackSlips, 1)
	assert.True(t, result.FallbackSlips[0].Fallback)
	assert.NotEqual(t, uuid.Nil, result.FallbackSlips[0].ID)
}

func TestGenerateCancelledContextReturnsFallback(t *testing.T) {
	g := statisticalGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := g.Generate(ctx, threeMatchMaster(), nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "cancelled")
	assert.Len(t, result.FallbackSlips, 1)
}

func TestGenerateReturnsCachedResult(t *testing.T) {
	predictor := &MockPredictor{}
	resultCache := &MockGenerationCache{}
	cached := &models.GenerationResult{Success: true, RunID: uuid.New(), Slips: []models.CandidateSlip{models.NewCandidateSlip()}}
	resultCache.On("Get", mock.Anything, mock.AnythingOfType("string")).Return(cached, nil).Once()

	g := newTestGenerator(predictor, nil, nil, resultCache, SlipGeneratorConfig{})

	result, err := g.Generate(context.Background(), threeMatchMaster(), nil)

	require.NoError(t, err)
	assert.Equal(t, cached.RunID, result.RunID)
	predictor.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, mock.Anything)
	resultCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestGeneratePersistsAndCachesResult(t *testing.T) {
	runs := &MockGenerationRunRepository{}
	resultCache := &MockGenerationCache{}

	master := threeMatchMaster()
	hash, err := models.RequestHash(master, models.DefaultGenerationOptions())
	require.NoError(t, err)

	resultCache.On("Get", mock.Anything, hash).Return(nil, cache.ErrCacheMiss).Once()
	resultCache.On("Set", mock.Anything, hash, mock.MatchedBy(func(r models.GenerationResult) bool {
		return r.Success && len(r.Slips) > 0
	})).Return(nil).Once()
	runs.On("Create", mock.Anything, mock.MatchedBy(func(run models.GenerationRun) bool {
		return run.RequestHash == hash && run.Success && run.MasterSlipID == master.ID && run.RiskProfile == models.RiskBalanced
	})).Return(errors.New("database down")).Once()

	g := newTestGenerator(NewMatchPredictor(nil, nil, "", quietLogger()), nil, runs, resultCache, SlipGeneratorConfig{})

	result, err := g.Generate(context.Background(), master, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	runs.AssertExpectations(t)
	resultCache.AssertExpectations(t)
}

func TestGenerateAttachesSimulation(t *testing.T) {
	g := newTestGenerator(NewMatchPredictor(nil, nil, "", quietLogger()), nil, nil, nil, SlipGeneratorConfig{
		SimulationIterations: 200,
		SimulationSeed:       7,
	})

	result, err := g.Generate(context.Background(), threeMatchMaster(), map[string]interface{}{"max_slips": 10})

	require.NoError(t, err)
	require.NotNil(t, result.Statistics.Simulation)
	assert.Equal(t, 200, result.Statistics.Simulation.Iterations)
	assert.GreaterOrEqual(t, result.Statistics.Simulation.ProbabilityOfProfit, 0.0)
	assert.LessOrEqual(t, result.Statistics.Simulation.ProbabilityOfProfit, 1.0)
}

func TestGenerateSimulationRepeatsForSameRequest(t *testing.T) {
	g := newTestGenerator(NewMatchPredictor(nil, nil, "", quietLogger()), nil, nil, nil, SlipGeneratorConfig{
		SimulationIterations: 300,
	})
	opts := map[string]interface{}{"max_slips": 10}

	first, err := g.Generate(context.Background(), threeMatchMaster(), opts)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), threeMatchMaster(), opts)
	require.NoError(t, err)

	require.NotNil(t, first.Statistics.Simulation)
	assert.Equal(t, first.Statistics.Simulation, second.Statistics.Simulation)
}

func TestGenerateMaxCombinationsCapsCandidates(t *testing.T) {
	predictor := &MockPredictor{}
	master := testMaster(
		testMatch("m1", "A", "B"),
		testMatch("m2", "C", "D"),
		testMatch("m3", "E", "F"),
		testMatch("m4", "G", "H"),
		testMatch("m5", "I", "J"),
	)
	for _, sel := range master.Selections {
		id := sel.Match.ID
		predictor.On("Predict", mock.Anything, mock.MatchedBy(func(m models.Match) bool { return m.ID == id }),
			mock.Anything).Return(fixedPrediction(id))
	}
	g := newTestGenerator(predictor, nil, nil, nil, SlipGeneratorConfig{})

	result, err := g.Generate(context.Background(), master, map[string]interface{}{"max_combinations": 10})

	require.NoError(t, err)
	assert.Equal(t, 10, result.Statistics.CandidatesGenerated)
	assert.True(t, result.Statistics.Truncated)
	assert.Equal(t, 243.0, result.Statistics.TheoreticalCombinations)
}
