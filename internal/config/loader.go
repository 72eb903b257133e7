package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	envPrefix         = "SLIP_ENGINE"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	// Create a new viper instance
	v := viper.New()
	v.SetConfigType("yaml")

	// Read the expanded configuration
	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set environment variable prefix
	v.SetEnvPrefix(envPrefix)

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	// Set configuration file path with default
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix(envPrefix)

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	// Unmarshal configuration into Config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv reloads the configuration from the file named by SLIP_ENGINE_CONFIG_PATH, if set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := LoadWithDefaults(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}

	return nil
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the file omits it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "slip-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "slip_engine")
	v.SetDefault("database.user", "slip_engine")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.ttl_seconds", 300)

	v.SetDefault("ml_service.enabled", false)
	v.SetDefault("ml_service.url", "http://localhost:8000")
	v.SetDefault("ml_service.grpc_address", "")
	v.SetDefault("ml_service.api_key", "")
	v.SetDefault("ml_service.request_timeout_seconds", 5)
	v.SetDefault("ml_service.retry_attempts", 2)
	v.SetDefault("ml_service.rate_limit_per_second", 20)
	v.SetDefault("ml_service.cache_ttl_seconds", 600)
	v.SetDefault("ml_service.cache_max_size", 5000)

	defaults := models.DefaultGenerationOptions()
	strategies := make([]string, 0, len(defaults.Strategies))
	for _, s := range defaults.Strategies {
		strategies = append(strategies, string(s))
	}
	v.SetDefault("generation.strategies", strategies)
	v.SetDefault("generation.risk_profile", string(defaults.RiskProfile))
	v.SetDefault("generation.min_odds", defaults.MinOdds)
	v.SetDefault("generation.max_odds", defaults.MaxOdds)
	v.SetDefault("generation.min_confidence", defaults.MinConfidence)
	v.SetDefault("generation.diversification", defaults.Diversification)
	v.SetDefault("generation.max_slips", defaults.MaxSlips)
	v.SetDefault("generation.max_matches_per_slip", defaults.MaxMatchesPerSlip)
	v.SetDefault("generation.max_combinations", defaults.MaxCombinations)
	v.SetDefault("generation.simulation_iterations", 0)
	v.SetDefault("generation.bankroll", 1000)
	v.SetDefault("generation.timeout_seconds", 30)

	v.SetDefault("staking.kelly_fraction", 0.5)
	v.SetDefault("staking.max_stake_per_slip", 0)
	v.SetDefault("staking.min_stake", 0)

	v.SetDefault("ratings.sync_schedule", "@every 5m")
	v.SetDefault("ratings.batch_size", 200)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", 8081)

	v.SetDefault("secrets.enabled", false)
	v.SetDefault("secrets.region", "")
	v.SetDefault("secrets.secret_name", "")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.daemon_addr", "127.0.0.1:2000")
	v.SetDefault("tracing.sampling_rate", 0.05)
}
