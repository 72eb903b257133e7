// Command slipgen generates accumulator slips and exposes the staking and
// prediction helpers from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/config"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/logger"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const (
	annotationConfig = "config"
	configOptional   = "optional"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:     "slipgen",
	Short:   "Football accumulator slip engine",
	Long:    `Builds ranked accumulator slips from a master slip and offers Kelly, arbitrage and prediction helpers.`,
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		invalid, err := loadConfig(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.New(cfg.App.LogLevel, cfg.App.Environment)
		appLog.SetOutput(cmd.ErrOrStderr())
		if invalid != nil {
			if !needsNoServices(cmd) {
				return fmt.Errorf("invalid configuration: %w", invalid)
			}
			appLog.WithError(invalid).Debug("Configuration incomplete, continuing without backing services")
		}
		return tracing.Initialize(cfg.Tracing, Version, appLog)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(generateCmd, predictCmd, kellyCmd, arbitrageCmd, ingestResultCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig reads the configuration. A validation failure is returned
// separately so commands that need no backing services can still run.
func loadConfig(ctx context.Context) (invalid error, err error) {
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, err
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	return config.Validate(cfg), nil
}

// needsNoServices reports whether cmd runs without the database, e.g. kelly or generate --offline.
func needsNoServices(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationConfig] == configOptional {
		return true
	}
	offline, err := cmd.Flags().GetBool("offline")
	return err == nil && offline
}

// readInput reads a JSON document from path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
