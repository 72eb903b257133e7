// Package ratings maintains team strength and form state driven by match results.
package ratings

import (
	"math"
	"time"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

const (
	updateFactor     = 0.2
	formWeight       = 0.7
	momentumWeight   = 0.6
	momentumWindow   = 3
	driftWeight      = 0.2
	goalsToRating    = 2.5
	maxMarginCounted = 3
	expectedScale    = 4.0
	winPerformance   = 7.0
	drawPerformance  = 5.0
	lossPerformance  = 3.0
	formPointsWin    = 10.0
	formPointsDraw   = 5.0
	formPointsLoss   = 0.0
	leaguePointsWin  = 3
	leaguePointsDraw = 1
	venueWinWeight   = 10.0
	venueDrawWeight  = 5.0
)

// ApplyResult returns the state of team after one played match.
// The input value is not modified; all derived fields are recomputed together.
func ApplyResult(team models.Team, opponentRating float64, goalsFor, goalsAgainst int, venue models.Venue, playedAt time.Time) models.Team {
	next := team
	result := resultCode(goalsFor, goalsAgainst)

	next.MatchesPlayed++
	next.GoalsScored += goalsFor
	next.GoalsConceded += goalsAgainst
	next.GoalDifference = next.GoalsScored - next.GoalsConceded

	switch result {
	case models.FormWin:
		next.Wins++
		next.Points += leaguePointsWin
	case models.FormDraw:
		next.Draws++
		next.Points += leaguePointsDraw
	default:
		next.Losses++
	}

	next.FormHistory = appendForm(team.FormHistory, result, models.FormHistoryLength)
	next.Form = lastN(next.FormHistory, models.FormLength)

	next.FormRating = clamp(formWeight*team.FormRating+(1-formWeight)*formPoints(result), models.MinRating, models.MaxRating)
	next.Momentum = updateMomentum(team.Momentum, next.FormHistory)

	stats := recordVenue(team.Venue(venue), result, goalsFor, goalsAgainst)
	strength := venueStrength(stats)
	if venue == models.VenueAway {
		next.AwayStats = stats
		next.AwayStrength = strength
	} else {
		next.HomeStats = stats
		next.HomeStrength = strength
	}

	performance := matchPerformance(goalsFor, goalsAgainst)
	expected := ExpectedPerformance(team.Overall, opponentRating)
	next.Overall = clamp(team.Overall+updateFactor*(performance-expected), models.MinRating, models.MaxRating)

	next.Attack = clamp((1-driftWeight)*team.Attack+driftWeight*math.Min(models.MaxRating, goalsToRating*float64(goalsFor)), models.MinRating, models.MaxRating)
	next.Defense = clamp((1-driftWeight)*team.Defense+driftWeight*math.Max(models.MinRating, models.MaxRating-goalsToRating*float64(goalsAgainst)), models.MinRating, models.MaxRating)

	next.RecomputeFlags()
	next.Version = team.Version + 1
	next.UpdatedAt = playedAt
	return next
}

// ExpectedPerformance is the score a team of selfRating should produce against opponentRating.
func ExpectedPerformance(selfRating, opponentRating float64) float64 {
	return models.MaxRating / (1 + math.Pow(10, -(selfRating-opponentRating)/expectedScale))
}

func resultCode(goalsFor, goalsAgainst int) byte {
	switch {
	case goalsFor > goalsAgainst:
		return models.FormWin
	case goalsFor < goalsAgainst:
		return models.FormLoss
	default:
		return models.FormDraw
	}
}

func formPoints(result byte) float64 {
	switch result {
	case models.FormWin:
		return formPointsWin
	case models.FormDraw:
		return formPointsDraw
	default:
		return formPointsLoss
	}
}

func leaguePoints(result byte) int {
	switch result {
	case models.FormWin:
		return leaguePointsWin
	case models.FormDraw:
		return leaguePointsDraw
	default:
		return 0
	}
}

// updateMomentum compares the last three results with the three before them.
// Fewer than six recorded results leaves momentum at zero.
func updateMomentum(current float64, history string) float64 {
	if len(history) < 2*momentumWindow {
		return 0
	}
	recent := history[len(history)-momentumWindow:]
	previous := history[len(history)-2*momentumWindow : len(history)-momentumWindow]

	delta := float64(sumPoints(recent)-sumPoints(previous)) / float64(leaguePointsWin*momentumWindow)
	return clamp(momentumWeight*current+(1-momentumWeight)*delta, -1, 1)
}

func sumPoints(form string) int {
	total := 0
	for i := 0; i < len(form); i++ {
		total += leaguePoints(form[i])
	}
	return total
}

func appendForm(history string, result byte, limit int) string {
	return lastN(history+string(result), limit)
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func recordVenue(stats models.VenueStats, result byte, goalsFor, goalsAgainst int) models.VenueStats {
	stats.Played++
	stats.GoalsFor += goalsFor
	stats.GoalsAgainst += goalsAgainst
	switch result {
	case models.FormWin:
		stats.Wins++
	case models.FormDraw:
		stats.Draws++
	default:
		stats.Losses++
	}
	return stats
}

func venueStrength(stats models.VenueStats) float64 {
	return math.Min(models.MaxRating, math.Max(models.MinRating, stats.WinRate()*venueWinWeight+stats.DrawRate()*venueDrawWeight))
}

// matchPerformance scores a result on the rating scale, rewarding margin up to three goals.
func matchPerformance(goalsFor, goalsAgainst int) float64 {
	margin := goalsFor - goalsAgainst
	switch {
	case margin > 0:
		return winPerformance + float64(minInt(margin, maxMarginCounted))
	case margin < 0:
		return lossPerformance - float64(minInt(-margin, maxMarginCounted))
	default:
		return drawPerformance
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
