package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/cache"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/repository"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/service"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/staking"
)

var (
	generateInput   string
	generateOptions string
	generateOffline bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate ranked slips from a master slip",
	Long: `Reads a master slip as JSON and prints the generation result.
Options override the configured generation defaults, e.g.
  slipgen generate -i master.json --options '{"risk_profile":"aggressive","max_slips":10}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var master models.MasterSlip
		if err := readInput(cmd, generateInput, &master); err != nil {
			return err
		}

		var rawOptions map[string]interface{}
		if generateOptions != "" {
			if err := json.Unmarshal([]byte(generateOptions), &rawOptions); err != nil {
				return fmt.Errorf("failed to parse options: %w", err)
			}
		}

		ctx := cmd.Context()
		deps, err := connect(ctx, generateOffline)
		if err != nil {
			return err
		}
		defer deps.close()

		var (
			runs        repository.GenerationRunRepository
			resultCache cache.GenerationCache
		)
		if deps.repos != nil {
			runs = deps.repos.GenerationRun
		}
		if deps.cache != nil {
			resultCache = deps.cache
		}

		generator := service.NewSlipGenerator(
			deps.predictor,
			deps.store,
			staking.NewAdvisor(cfg.Staking.KellyFraction, cfg.Staking.MaxStakePerSlip, cfg.Staking.MinStake),
			runs,
			resultCache,
			service.SlipGeneratorConfig{
				Defaults:             cfg.GenerationOptions(),
				Bankroll:             cfg.Generation.Bankroll,
				SimulationIterations: cfg.Generation.SimulationIterations,
				SimulationSeed:       cfg.Generation.SimulationSeed,
				Timeout:              cfg.GenerationTimeout(),
			},
			appLog,
		)

		result, err := generator.Generate(ctx, master, rawOptions)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "-", "Master slip JSON file, - for stdin")
	generateCmd.Flags().StringVar(&generateOptions, "options", "", "Generation options as a JSON object")
	generateCmd.Flags().BoolVar(&generateOffline, "offline", false, "Skip the database and cache; teams start from neutral ratings")
}
