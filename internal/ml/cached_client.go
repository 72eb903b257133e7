package ml

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/config"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/logger"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// CachedClient wraps a Client with prediction caching
type CachedClient struct {
	client Client
	cache  *PredictionCache
	logger *logger.MLLogger
}

// NewCachedClient creates a caching decorator around client
func NewCachedClient(client Client, cache *PredictionCache, log *logrus.Logger) *CachedClient {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CachedClient{
		client: client,
		cache:  cache,
		logger: logger.NewMLLogger(log),
	}
}

// NewCachedHTTPClient builds the HTTP client and cache from the ml_service config section
func NewCachedHTTPClient(cfg *config.MLServiceConfig, log *logrus.Logger) (*CachedClient, *HTTPClient) {
	httpClient := NewHTTPClient(HTTPClientConfigFromService(cfg), log)
	cache := NewPredictionCache(
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		cfg.CacheMaxSize,
	)
	return NewCachedClient(httpClient, cache, log), httpClient
}

// Predict returns a cached prediction or fetches and caches a fresh one.
// Failures are never cached.
func (c *CachedClient) Predict(ctx context.Context, req PredictionRequest) (models.Prediction, error) {
	start := time.Now()
	cacheKey := CacheKey{MatchID: req.MatchID, ModelVersion: req.ModelVersion}

	if cached, ok := c.cache.Get(cacheKey); ok {
		MLPredictionsTotal.WithLabelValues("true").Inc()
		c.logger.LogMLPredictionRequest(req.MatchID, req.ModelVersion, true, elapsedMs(start))
		return cached, nil
	}

	result, err := c.client.Predict(ctx, req)
	if err != nil {
		return models.Prediction{}, err
	}

	c.cache.Set(cacheKey, result)
	c.logger.LogMLPredictionRequest(req.MatchID, req.ModelVersion, false, elapsedMs(start))
	return result, nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// Invalidate drops cached predictions for a match, e.g. after its odds change
func (c *CachedClient) Invalidate(matchID string) {
	c.cache.Invalidate(matchID)
}

// GetCacheStats returns cache statistics
func (c *CachedClient) GetCacheStats() (hits, misses uint64, hitRatio float64) {
	return c.cache.Stats()
}
