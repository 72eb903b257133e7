package ml

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// CacheKey represents a unique key for caching predictions
type CacheKey struct {
	MatchID      string
	ModelVersion string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.MatchID, k.ModelVersion)
}

// PredictionCache provides in-memory TTL caching for ML predictions
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction
func (pc *PredictionCache) Get(key CacheKey) (models.Prediction, bool) {
	if result, found := pc.cache.Get(key.String()); found {
		if pred, ok := result.(models.Prediction); ok {
			pc.hitCount.Add(1)
			pc.updateMetrics()
			return pred, true
		}
	}

	pc.missCount.Add(1)
	pc.updateMetrics()
	return models.Prediction{}, false
}

// Set stores a prediction in cache. When the cache is full and nothing has
// expired the entry is dropped.
func (pc *PredictionCache) Set(key CacheKey, prediction models.Prediction) {
	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return
		}
	}

	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// Invalidate removes every cached prediction for a match
func (pc *PredictionCache) Invalidate(matchID string) {
	prefix := matchID + ":"
	for k := range pc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			pc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics
func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.Stats()
	MLCacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
