// Package config provides configuration management for the slip engine.
package config

import (
	"fmt"
	"time"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	MLService  MLServiceConfig  `mapstructure:"ml_service" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Staking    StakingConfig    `mapstructure:"staking" validate:"required"`
	Ratings    RatingsConfig    `mapstructure:"ratings" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Health     HealthConfig     `mapstructure:"health"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// RedisConfig configures the generation result cache. An empty address disables it.
type RedisConfig struct {
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db" validate:"gte=0"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// MLServiceConfig represents ML service configuration
type MLServiceConfig struct {
	Enabled               bool    `mapstructure:"enabled"`
	URL                   string  `mapstructure:"url" validate:"required,url"`
	GRPCAddress           string  `mapstructure:"grpc_address"`
	APIKey                string  `mapstructure:"api_key"`
	ModelVersion          string  `mapstructure:"model_version"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond    float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	CacheTTLSeconds       int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize          int     `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// GenerationConfig holds the defaults applied to every generation request
type GenerationConfig struct {
	Strategies           []string `mapstructure:"strategies" validate:"required,min=1,strategies"`
	RiskProfile          string   `mapstructure:"risk_profile" validate:"required,riskprofile"`
	MinOdds              float64  `mapstructure:"min_odds" validate:"required,gte=1.01"`
	MaxOdds              float64  `mapstructure:"max_odds" validate:"required,gt=1"`
	MinConfidence        float64  `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	Diversification      bool     `mapstructure:"diversification"`
	MaxSlips             int      `mapstructure:"max_slips" validate:"required,min=1,max=500"`
	MaxMatchesPerSlip    int      `mapstructure:"max_matches_per_slip" validate:"required,min=2,max=10"`
	MaxCombinations      int      `mapstructure:"max_combinations" validate:"required,gt=0"`
	SimulationIterations int      `mapstructure:"simulation_iterations" validate:"gte=0"`
	SimulationSeed       int64    `mapstructure:"simulation_seed"`
	Bankroll             float64  `mapstructure:"bankroll" validate:"gte=0"`
	TimeoutSeconds       int      `mapstructure:"timeout_seconds" validate:"gte=0"`
}

// StakingConfig represents stake sizing limits
type StakingConfig struct {
	KellyFraction   float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MaxStakePerSlip float64 `mapstructure:"max_stake_per_slip" validate:"gte=0"`
	MinStake        float64 `mapstructure:"min_stake" validate:"gte=0"`
}

// RatingsConfig represents result ingestion scheduling
type RatingsConfig struct {
	SyncSchedule string `mapstructure:"sync_schedule" validate:"required"`
	BatchSize    int    `mapstructure:"batch_size" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health server configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// SecretsConfig selects the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// TracingConfig configures AWS X-Ray segments
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr" validate:"required_if=Enabled true"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetMLServiceHTTPURL returns the formatted HTTP URL for ML service
func (c *Config) GetMLServiceHTTPURL() string {
	return c.MLService.URL
}

// GetMLServiceGRPCAddress returns the gRPC address for ML service
func (c *Config) GetMLServiceGRPCAddress() string {
	return c.MLService.GRPCAddress
}

// GenerationOptions converts the configured defaults into the options every request starts from.
func (c *Config) GenerationOptions() models.GenerationOptions {
	g := c.Generation
	strategies := make([]models.Strategy, 0, len(g.Strategies))
	for _, s := range g.Strategies {
		strategies = append(strategies, models.Strategy(s))
	}
	return models.GenerationOptions{
		Strategies:        strategies,
		RiskProfile:       models.RiskProfile(g.RiskProfile),
		MinOdds:           g.MinOdds,
		MaxOdds:           g.MaxOdds,
		MinConfidence:     g.MinConfidence,
		Diversification:   g.Diversification,
		MaxSlips:          g.MaxSlips,
		MaxMatchesPerSlip: g.MaxMatchesPerSlip,
		MaxCombinations:   g.MaxCombinations,
	}.Normalize()
}

// CacheTTL returns the generation cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// GenerationTimeout returns the per-request deadline, zero for none
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}
