package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ml"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/probability"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ratings"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, match models.Match, in probability.Inputs) models.Prediction {
	args := m.Called(ctx, match, in)
	return args.Get(0).(models.Prediction)
}

type MockMLClient struct {
	mock.Mock
}

func (m *MockMLClient) Predict(ctx context.Context, req ml.PredictionRequest) (models.Prediction, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Prediction), args.Error(1)
}

type MockGenerationCache struct {
	mock.Mock
}

func (m *MockGenerationCache) Get(ctx context.Context, requestHash string) (*models.GenerationResult, error) {
	args := m.Called(ctx, requestHash)
	result, _ := args.Get(0).(*models.GenerationResult)
	return result, args.Error(1)
}

func (m *MockGenerationCache) Set(ctx context.Context, requestHash string, result models.GenerationResult) error {
	return m.Called(ctx, requestHash, result).Error(0)
}

type MockGenerationRunRepository struct {
	mock.Mock
}

func (m *MockGenerationRunRepository) Create(ctx context.Context, run models.GenerationRun) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockGenerationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationRun, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(*models.GenerationRun)
	return run, args.Error(1)
}

func (m *MockGenerationRunRepository) ListByMasterSlip(ctx context.Context, masterSlipID uuid.UUID, limit int) ([]models.GenerationRun, error) {
	args := m.Called(ctx, masterSlipID, limit)
	runs, _ := args.Get(0).([]models.GenerationRun)
	return runs, args.Error(1)
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

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) SaveResult(ctx context.Context, update ratings.ResultUpdate) error {
	return m.Called(ctx, update).Error(0)
}
