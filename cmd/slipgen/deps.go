package main

import (
	"context"
	"fmt"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/cache"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/database"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ml"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/ratings"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/repository"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/service"
)

// dependencies holds the optional backing services for one command.
type dependencies struct {
	db        *database.DB
	repos     *repository.Repositories
	store     *ratings.Store
	ingestion *service.ResultIngestionService
	cache     *cache.RedisGenerationCache
	mlClient  *ml.HTTPClient
	predictor *service.MatchPredictor
}

// connect opens the database and loads rating state. With offline set the
// store starts empty and nothing is persisted.
func connect(ctx context.Context, offline bool) (*dependencies, error) {
	deps := &dependencies{}

	if cfg.MLService.Enabled {
		cached, httpClient := ml.NewCachedHTTPClient(&cfg.MLService, appLog)
		deps.mlClient = httpClient
		deps.predictor = service.NewMatchPredictor(cached, nil, cfg.MLService.ModelVersion, appLog)
	} else {
		deps.predictor = service.NewMatchPredictor(nil, nil, "", appLog)
	}

	if offline {
		deps.store = ratings.NewStore(nil, appLog)
		return deps, nil
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		deps.close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.db = db

	repos, err := repository.NewRepositories(db)
	if err != nil {
		deps.close()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}
	deps.repos = repos
	deps.store = ratings.NewStore(repos.Ratings, appLog)
	deps.ingestion = service.NewResultIngestionService(deps.store, repos.Match, repos.Team, repos.HeadToHead, cfg.Ratings.BatchSize, appLog)
	if err := deps.ingestion.LoadState(ctx); err != nil {
		deps.close()
		return nil, err
	}

	if cfg.Redis.Address != "" {
		c, err := cache.NewRedisGenerationCache(ctx, &cfg.Redis)
		if err != nil {
			appLog.WithError(err).Warn("Generation cache unavailable, continuing without it")
		} else {
			deps.cache = c
		}
	}

	return deps, nil
}

func (d *dependencies) close() {
	if d.cache != nil {
		if err := d.cache.Close(); err != nil {
			appLog.WithError(err).Warn("Failed to close generation cache")
		}
	}
	if d.mlClient != nil {
		if err := d.mlClient.Close(); err != nil {
			appLog.WithError(err).Warn("Failed to close ML client")
		}
	}
	if d.db != nil {
		d.db.Close()
	}
}
