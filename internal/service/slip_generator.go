// Package service composes the rating, probability, combination, strategy and
// staking packages into the operations exposed to callers.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/backtest"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/cache"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/combination"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/logger"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/metrics"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/probability"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/repository"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/staking"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/strategy"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/tracing"
)

// Fallback reasons reported to metrics.
const (
	fallbackNoCandidates = "no_candidates"
	fallbackPanic        = "panic"
	fallbackTimeout      = "timeout"
)

// TeamSource resolves stored team state. *ratings.Store satisfies it.
type TeamSource interface {
	Lookup(name string) (models.Team, bool)
	HeadToHead(a, b string) models.HeadToHead
}

// SlipGeneratorConfig holds the service-level generation settings.
type SlipGeneratorConfig struct {
	Defaults             models.GenerationOptions
	Bankroll             float64
	SimulationIterations int
	SimulationSeed       int64
	Timeout              time.Duration
}

// SlipGenerator turns a master slip into a ranked set of accumulator slips.
type SlipGenerator struct {
	predictor Predictor
	teams     TeamSource
	pipeline  *strategy.Pipeline
	advisor   *staking.Advisor
	runs      repository.GenerationRunRepository
	cache     cache.GenerationCache
	cfg       SlipGeneratorConfig
	validate  *validator.Validate
	logger    *logrus.Logger
	genLogger *logger.GenerationLogger
	now       func() time.Time
	newID     func() uuid.UUID
}

// NewSlipGenerator creates a generator. teams, runs and resultCache may be nil.
func NewSlipGenerator(
	predictor Predictor,
	teams TeamSource,
	advisor *staking.Advisor,
	runs repository.GenerationRunRepository,
	resultCache cache.GenerationCache,
	cfg SlipGeneratorConfig,
	log *logrus.Logger,
) *SlipGenerator {
	cfg.Defaults = cfg.Defaults.Normalize()
	return &SlipGenerator{
		predictor: predictor,
		teams:     teams,
		pipeline:  strategy.NewPipeline(log),
		advisor:   advisor,
		runs:      runs,
		cache:     resultCache,
		cfg:       cfg,
		validate:  validator.New(),
		logger:    log,
		genLogger: logger.NewGenerationLogger(log),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.New,
	}
}

// Generate runs one generation request. The returned error is always an
// *models.InputValidationError; every other failure is reported through a
// result with Success false and a fallback slip.
func (g *SlipGenerator) Generate(ctx context.Context, master models.MasterSlip, rawOptions map[string]interface{}) (models.GenerationResult, error) {
	start := time.Now()

	if len(master.Selections) < models.MinMatchesPerSlip {
		return models.GenerationResult{}, models.NewInputValidationError("matches",
			fmt.Sprintf("at least %d matches are required, got %d", models.MinMatchesPerSlip, len(master.Selections)))
	}
	if err := g.validate.Struct(master); err != nil {
		return models.GenerationResult{}, models.NewInputValidationError("master_slip", err.Error())
	}

	opts, err := models.ParseGenerationOptions(rawOptions, g.cfg.Defaults)
	if err != nil {
		var verr *models.InputValidationError
		if errors.As(err, &verr) {
			return models.GenerationResult{}, verr
		}
		return models.GenerationResult{}, models.NewInputValidationError("options", err.Error())
	}

	requestHash, err := models.RequestHash(master, opts)
	if err != nil {
		g.logger.WithError(err).Warn("Failed to hash generation request, caching disabled for this run")
	}
	if cached, ok := g.lookupCache(ctx, requestHash); ok {
		g.genLogger.LogGenerationCompleted(cached.RunID.String(), len(cached.Slips), averageOdds(cached), averageEV(cached),
			float64(time.Since(start).Milliseconds()), true)
		return *cached, nil
	}

	if master.ID == uuid.Nil {
		master.ID = g.newID()
	}
	runID := g.newID()
	g.genLogger.LogGenerationStarted(runID.String(), master.ID.String(), len(master.Selections),
		string(opts.RiskProfile), strategyNames(opts.Strategies))

	runCtx, span := tracing.Start(ctx, "slip_generation")
	span.Annotate("run_id", runID.String())
	span.Annotate("risk_profile", string(opts.RiskProfile))
	result, err := g.run(runCtx, runID, requestHash, master, opts)
	span.Annotate("success", result.Success)
	span.End(err)
	if err != nil {
		return models.GenerationResult{}, err
	}

	status := "success"
	if !result.Success {
		status = "failed"
	}
	metrics.RecordGeneration(status, string(opts.RiskProfile), time.Since(start).Seconds())

	if result.Success {
		g.store(ctx, requestHash, opts, result)
		g.genLogger.LogGenerationCompleted(runID.String(), len(result.Slips), averageOdds(&result), averageEV(&result),
			float64(time.Since(start).Milliseconds()), false)
	}
	return result, nil
}

// run executes the core stages, converting a panic into a failure result.
func (g *SlipGenerator) run(ctx context.Context, runID uuid.UUID, requestHash string, master models.MasterSlip, opts models.GenerationOptions) (result models.GenerationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.WithFields(logrus.Fields{
				"run_id": runID.String(),
				"panic":  fmt.Sprint(r),
			}).Error("Slip generation panicked")
			result = g.failure(runID, master, opts, fmt.Sprintf("internal error: %v", r), fallbackPanic)
			err = nil
		}
	}()

	predictions, sources := g.predict(ctx, master.Selections)
	if ctx.Err() != nil {
		return g.failure(runID, master, opts, fmt.Sprintf("generation cancelled: %v", ctx.Err()), fallbackTimeout), nil
	}

	combos := combination.Generate(master.Selections, predictions, opts)
	metrics.RecordCandidates(len(combos.Slips), combos.Truncated)
	g.genLogger.LogCombinationsGenerated(runID.String(), len(combos.Slips), combos.MatchesUsed, combos.Truncated, combos.Fallback)
	if combos.Fallback {
		if !anyTeamsResolvable(master.Selections) {
			return models.GenerationResult{}, models.NewInputValidationError("matches",
				"no viable outcomes and no resolvable teams")
		}
		metrics.RecordFallback(fallbackNoCandidates)
	}

	ranked := g.pipeline.Run(combos.Slips, opts)

	bankroll := g.bankroll(master)
	evs := make([]float64, len(ranked))
	for i := range ranked {
		ranked[i].ID = g.newID()
		g.advisor.AdviseSlip(&ranked[i], bankroll)
		evs[i] = ranked[i].ExpectedValue
	}
	metrics.RecordSlips(len(ranked), evs)

	stats := strategy.Statistics(ranked, len(master.Selections))
	stats.CandidatesGenerated = len(combos.Slips)
	stats.Truncated = combos.Truncated
	stats.RiskProfile = opts.RiskProfile
	stats.StrategiesApplied = opts.Strategies
	stats.PredictionSources = sources
	stats.Simulation = g.simulate(ctx, runID, requestHash, ranked, predictions, bankroll)

	return models.GenerationResult{
		Success:      true,
		RunID:        runID,
		MasterSlipID: master.ID,
		Slips:        ranked,
		Statistics:   &stats,
		GeneratedAt:  g.now(),
	}, nil
}

// predict scores every selection. Supplied predictions are used as given after
// normalization; the rest go through the predictor under the configured timeout.
func (g *SlipGenerator) predict(ctx context.Context, selections []models.MatchSelection) (map[string]models.Prediction, map[models.PredictionSource]int) {
	predCtx := ctx
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		predCtx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	predictions := make(map[string]models.Prediction, len(selections))
	sources := make(map[models.PredictionSource]int)
	for _, sel := range selections {
		var pred models.Prediction
		if sel.Prediction != nil {
			pred = suppliedPrediction(*sel.Prediction, sel.Match.ID)
			metrics.RecordPrediction("supplied", pred.Confidence)
		} else {
			pred = g.predictor.Predict(predCtx, sel.Match, g.inputs(sel))
		}
		predictions[sel.Match.ID] = pred
		sources[pred.Source]++
	}
	return predictions, sources
}

// inputs resolves team state from the selection snapshot, then the team source,
// then the neutral default.
func (g *SlipGenerator) inputs(sel models.MatchSelection) probability.Inputs {
	in := probability.Inputs{
		Home:       g.resolveTeam(sel.HomeTeam, sel.Match.HomeTeam),
		Away:       g.resolveTeam(sel.AwayTeam, sel.Match.AwayTeam),
		HeadToHead: sel.HeadToHead,
		Odds:       sel.Match.Odds,
	}
	if in.HeadToHead == nil && g.teams != nil && sel.Match.HasTeams() {
		if h2h := g.teams.HeadToHead(sel.Match.HomeTeam, sel.Match.AwayTeam); h2h.Meetings > 0 {
			in.HeadToHead = &h2h
		}
	}
	return in
}

func (g *SlipGenerator) resolveTeam(snapshot *models.Team, name string) models.Team {
	if snapshot != nil {
		return *snapshot
	}
	if g.teams != nil {
		if team, ok := g.teams.Lookup(name); ok {
			return team
		}
	}
	return models.NewTeam(name)
}

func (g *SlipGenerator) bankroll(master models.MasterSlip) decimal.Decimal {
	if master.Stake > 0 {
		return decimal.NewFromFloat(master.Stake)
	}
	return decimal.NewFromFloat(g.cfg.Bankroll)
}

// simulate runs the portfolio simulation. Without a configured seed the seed
// comes from the request hash, so identical requests report identical statistics.
func (g *SlipGenerator) simulate(ctx context.Context, runID uuid.UUID, requestHash string, slips []models.CandidateSlip, predictions map[string]models.Prediction, bankroll decimal.Decimal) *models.SimulationSummary {
	if g.cfg.SimulationIterations <= 0 || !bankroll.IsPositive() {
		return nil
	}
	seed := g.cfg.SimulationSeed
	if seed == 0 && requestHash != "" {
		seed = backtest.SeedFromKey(requestHash)
	}
	res, err := backtest.RunMonteCarlo(ctx, slips, predictions, backtest.MonteCarloConfig{
		Iterations:      g.cfg.SimulationIterations,
		Seed:            seed,
		InitialBankroll: bankroll.InexactFloat64(),
	})
	if err != nil {
		g.logger.WithFields(logrus.Fields{
			"run_id": runID.String(),
			"error":  err.Error(),
		}).Warn("Portfolio simulation skipped")
		return nil
	}
	return res.Summary()
}

func (g *SlipGenerator) failure(runID uuid.UUID, master models.MasterSlip, opts models.GenerationOptions, reason, metricReason string) models.GenerationResult {
	slip := combination.FallbackSlip(master.Selections, opts.MaxMatchesPerSlip)
	slip.ID = g.newID()
	metrics.RecordFallback(metricReason)
	g.genLogger.LogGenerationFailed(runID.String(), reason, 1)
	return models.GenerationResult{
		Success:       false,
		RunID:         runID,
		MasterSlipID:  master.ID,
		GeneratedAt:   g.now(),
		Error:         reason,
		FallbackSlips: []models.CandidateSlip{slip},
	}
}

func (g *SlipGenerator) lookupCache(ctx context.Context, requestHash string) (*models.GenerationResult, bool) {
	if g.cache == nil || requestHash == "" {
		return nil, false
	}
	cached, err := g.cache.Get(ctx, requestHash)
	switch {
	case err == nil:
		metrics.RecordCacheLookup(true)
		return cached, true
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.RecordCacheLookup(false)
	default:
		g.logger.WithError(err).Warn("Generation cache lookup failed")
	}
	return nil, false
}

// store persists the run and caches the result. Failures are logged, never returned.
func (g *SlipGenerator) store(ctx context.Context, requestHash string, opts models.GenerationOptions, result models.GenerationResult) {
	ctx = context.WithoutCancel(ctx)

	if g.runs != nil {
		if err := g.runs.Create(ctx, models.NewGenerationRun(result, requestHash, opts.RiskProfile)); err != nil {
			g.logger.WithFields(logrus.Fields{
				"run_id": result.RunID.String(),
				"error":  err.Error(),
			}).Warn("Failed to persist generation run")
		}
	}
	if g.cache != nil && requestHash != "" {
		if err := g.cache.Set(ctx, requestHash, result); err != nil {
			g.logger.WithFields(logrus.Fields{
				"run_id": result.RunID.String(),
				"error":  err.Error(),
			}).Warn("Failed to cache generation result")
		}
	}
}

func suppliedPrediction(p models.Prediction, matchID string) models.Prediction {
	t := probability.Triple{Home: p.Home, Draw: p.Draw, Away: p.Away}.Normalize()
	p.MatchID = matchID
	p.Home, p.Draw, p.Away = t.Home, t.Draw, t.Away
	p.Outcome = t.Outcome()
	if p.Source == "" {
		p.Source = models.SourceML
	}
	if p.Confidence <= 0 || p.Confidence > 1 {
		p.Confidence = t.Spread()
	}
	return p
}

func anyTeamsResolvable(selections []models.MatchSelection) bool {
	for _, sel := range selections {
		if sel.HomeTeam != nil || sel.AwayTeam != nil || sel.Match.HasTeams() {
			return true
		}
	}
	return false
}

func strategyNames(strategies []models.Strategy) []string {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = string(s)
	}
	return names
}

func averageOdds(r *models.GenerationResult) float64 {
	if r.Statistics == nil {
		return 0
	}
	return r.Statistics.AverageOdds
}

func averageEV(r *models.GenerationResult) float64 {
	if r.Statistics == nil {
		return 0
	}
	return r.Statistics.AverageExpectedValue
}
