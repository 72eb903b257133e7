package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

var (
	ingestInput string
	ingestSync  bool
)

var ingestResultCmd = &cobra.Command{
	Use:   "ingest-result",
	Short: "Apply a completed match to team ratings",
	Long: `Stores a played match and updates both teams' ratings and their head-to-head record.
With --sync, applies every pending result in the database instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, err := connect(ctx, false)
		if err != nil {
			return err
		}
		defer deps.close()

		if ingestSync {
			report, err := deps.ingestion.SyncCompleted(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		}

		var match models.Match
		if err := readInput(cmd, ingestInput, &match); err != nil {
			return err
		}
		home, away, err := deps.ingestion.IngestResult(ctx, match)
		if err != nil {
			return err
		}
		appLog.WithFields(logrus.Fields{
			"match_id":     match.ID,
			"home_overall": home.Overall,
			"away_overall": away.Overall,
		}).Info("Result applied")
		return printJSON(cmd, []models.Team{home, away})
	},
}

func init() {
	ingestResultCmd.Flags().StringVarP(&ingestInput, "input", "i", "-", "Match JSON file with a result, - for stdin")
	ingestResultCmd.Flags().BoolVar(&ingestSync, "sync", false, "Apply all pending results from the database")
}
