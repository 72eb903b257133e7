package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/probability"
)

var (
	predictHome    string
	predictAway    string
	predictOdds    []float64
	predictLine    float64
	predictTopN    int
	predictOffline bool
)

// predictionReport is the predict command's output.
type predictionReport struct {
	Prediction   models.Prediction              `json:"prediction"`
	CorrectScore []probability.ScoreProbability `json:"correct_score"`
	Handicap     probability.HandicapEstimate   `json:"asian_handicap"`
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a single fixture",
	Long:  `Scores one fixture from the stored team ratings and prints the 1X2 distribution, auxiliary markets, likeliest scores and an Asian handicap line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(predictOdds) != 0 && len(predictOdds) != 3 {
			return errors.New("--odds takes exactly three prices: home,draw,away")
		}

		ctx := cmd.Context()
		deps, err := connect(ctx, predictOffline)
		if err != nil {
			return err
		}
		defer deps.close()

		match := models.Match{
			ID:        models.TeamKey(predictHome) + "-" + models.TeamKey(predictAway),
			HomeTeam:  predictHome,
			AwayTeam:  predictAway,
			KickoffAt: time.Now().UTC(),
		}
		if len(predictOdds) == 3 {
			match.Odds = &models.MarketOdds{Home: predictOdds[0], Draw: predictOdds[1], Away: predictOdds[2]}
		}

		home, away := deps.store.Team(predictHome), deps.store.Team(predictAway)
		in := probability.Inputs{Home: home, Away: away, Odds: match.Odds}
		if h2h := deps.store.HeadToHead(predictHome, predictAway); h2h.Meetings > 0 {
			in.HeadToHead = &h2h
		}

		scores := probability.NewScoreline(home, away)
		correct := scores.CorrectScore()
		if predictTopN > 0 && len(correct) > predictTopN {
			correct = correct[:predictTopN]
		}

		return printJSON(cmd, predictionReport{
			Prediction:   deps.predictor.Predict(ctx, match, in),
			CorrectScore: correct,
			Handicap:     scores.AsianHandicap(predictLine),
		})
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictHome, "home", "", "Home team name")
	predictCmd.Flags().StringVar(&predictAway, "away", "", "Away team name")
	predictCmd.Flags().Float64SliceVar(&predictOdds, "odds", nil, "Bookmaker 1X2 prices home,draw,away")
	predictCmd.Flags().Float64Var(&predictLine, "handicap", -0.5, "Asian handicap line for the home side")
	predictCmd.Flags().IntVar(&predictTopN, "scores", 5, "Number of correct scores to print")
	predictCmd.Flags().BoolVar(&predictOffline, "offline", false, "Skip the database; teams start from neutral ratings")
	_ = predictCmd.MarkFlagRequired("home")
	_ = predictCmd.MarkFlagRequired("away")
}
