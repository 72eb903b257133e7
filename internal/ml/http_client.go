package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/config"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	predictPath = "/api/v1/predictions"
	healthPath  = "/health"
)

// HTTPClientConfig holds configuration for the scoring HTTP client
type HTTPClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryWaitMin   time.Duration
	RetryWaitMax   time.Duration
	RateLimit      float64 // requests per second, zero for unlimited
	CircuitBreaker CircuitBreakerConfig
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:        5 * time.Second,
		MaxRetries:     2,
		RetryWaitMin:   100 * time.Millisecond,
		RetryWaitMax:   2 * time.Second,
		RateLimit:      20,
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
}

// HTTPClientConfigFromService maps the ml_service config section
func HTTPClientConfigFromService(cfg *config.MLServiceConfig) HTTPClientConfig {
	c := DefaultHTTPClientConfig()
	c.BaseURL = cfg.URL
	c.APIKey = cfg.APIKey
	c.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	c.MaxRetries = cfg.RetryAttempts
	c.RateLimit = cfg.RateLimitPerSecond
	return c
}

// HTTPClient calls the scoring service over HTTP with retries, rate limiting
// and a circuit breaker.
type HTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	breaker *CircuitBreaker
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewHTTPClient creates a new HTTP client for the ML service
func NewHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *HTTPClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.Logger = nil
	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			logger.WithFields(logrus.Fields{
				"url":     req.URL.String(),
				"attempt": attempt,
			}).Debug("Retrying ML service request")
		}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &HTTPClient{
		client:  retryClient,
		limiter: rate.NewLimiter(limit, 1),
		breaker: NewCircuitBreaker(cfg.CircuitBreaker, logger),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// Predict requests the outcome distribution of one match
func (c *HTTPClient) Predict(ctx context.Context, req PredictionRequest) (models.Prediction, error) {
	start := time.Now()
	defer func() {
		MLPredictionLatency.WithLabelValues("http").Observe(time.Since(start).Seconds())
	}()

	if req.MatchID == "" {
		return models.Prediction{}, fmt.Errorf("%w: match id is required", ErrInvalidPrediction)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, predictPath, body)
	if err != nil {
		MLRequestErrorsTotal.WithLabelValues("predict", "network").Inc()
		return models.Prediction{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		MLRequestErrorsTotal.WithLabelValues("predict", "http_error").Inc()
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			c.breaker.RecordFailure(fmt.Errorf("status %d", resp.StatusCode))
			return models.Prediction{}, fmt.Errorf("%w: status %d: %s", ErrMLServiceUnavailable, resp.StatusCode, string(msg))
		}
		c.breaker.RecordSuccess()
		return models.Prediction{}, fmt.Errorf("%w: status %d: %s", ErrInvalidPrediction, resp.StatusCode, string(msg))
	}
	c.breaker.RecordSuccess()

	var decoded predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		MLRequestErrorsTotal.WithLabelValues("predict", "decode").Inc()
		return models.Prediction{}, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidPrediction, err)
	}

	prediction, err := decoded.toPrediction(req.MatchID, time.Now().UTC())
	if err != nil {
		MLRequestErrorsTotal.WithLabelValues("predict", "invalid").Inc()
		return models.Prediction{}, err
	}
	if prediction.ModelVersion == "" {
		prediction.ModelVersion = req.ModelVersion
	}

	MLPredictionsTotal.WithLabelValues("false").Inc()
	return prediction, nil
}

// HealthCheck checks ML service health
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrMLServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// CircuitState returns the state of the client's circuit breaker
func (c *HTTPClient) CircuitState() CircuitState {
	return c.breaker.State()
}

// Close closes any resources held by the client
func (c *HTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// do sends one logical request through the breaker, limiter and retry policy.
// Transport failures are recorded on the breaker and mapped to ErrMLServiceUnavailable.
func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	if !c.breaker.Allow() {
		return nil, ErrCircuitOpen
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.breaker.Release()
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrMLServiceUnavailable, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		c.breaker.Release()
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.breaker.RecordFailure(err)
		c.logger.WithError(err).WithField("path", path).Warn("ML service request failed")
		return nil, fmt.Errorf("%w: %v", ErrMLServiceUnavailable, err)
	}
	return resp, nil
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, nil
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
