package ratings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

var kickoff = time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

func TestApplyResultHomeWinAgainstEqualOpponent(t *testing.T) {
	home := models.NewTeam("Arsenal")
	away := models.NewTeam("Chelsea")

	nextHome := ApplyResult(home, away.Overall, 3, 0, models.VenueHome, kickoff)
	nextAway := ApplyResult(away, home.Overall, 0, 3, models.VenueAway, kickoff)

	assert.InDelta(t, 6.0, nextHome.Overall, 1e-9)
	assert.InDelta(t, 6.5, nextHome.FormRating, 1e-9)
	assert.Equal(t, "W", nextHome.Form)
	assert.Equal(t, 3, nextHome.Points)
	assert.Equal(t, 1, nextHome.Wins)
	assert.Equal(t, 3, nextHome.GoalDifference)
	assert.Equal(t, 1, nextHome.HomeStats.Played)
	assert.InDelta(t, 10.0, nextHome.HomeStrength, 1e-9)
	assert.True(t, nextHome.HasHomeAdvantage)
	assert.Equal(t, int64(1), nextHome.Version)
	assert.Equal(t, kickoff, nextHome.UpdatedAt)

	assert.InDelta(t, 4.0, nextAway.Overall, 1e-9)
	assert.InDelta(t, 3.5, nextAway.FormRating, 1e-9)
	assert.Equal(t, "L", nextAway.Form)
	assert.Equal(t, 0, nextAway.Points)
	assert.InDelta(t, 0.0, nextAway.AwayStrength, 1e-9)
	assert.Equal(t, 1, nextAway.AwayStats.Losses)
}

func TestApplyResultDoesNotModifyInput(t *testing.T) {
	team := models.NewTeam("Arsenal")
	team.FormHistory = "WWDLL"
	team.Form = "WWDLL"

	_ = ApplyResult(team, 5, 2, 1, models.VenueHome, kickoff)

	assert.Equal(t, "WWDLL", team.FormHistory)
	assert.Equal(t, 0, team.MatchesPlayed)
	assert.Equal(t, models.DefaultRating, team.Overall)
}

func TestApplyResultDrawAgainstEqualOpponentKeepsRating(t *testing.T) {
	team := models.NewTeam("Arsenal")
	next := ApplyResult(team, models.DefaultRating, 1, 1, models.VenueAway, kickoff)

	assert.InDelta(t, models.DefaultRating, next.Overall, 1e-9)
	assert.Equal(t, 1, next.Points)
	assert.Equal(t, "D", next.Form)
	assert.InDelta(t, 5.0, next.AwayStrength, 1e-9)
}

func TestApplyResultFormIsBounded(t *testing.T) {
	team := models.NewTeam("Arsenal")
	for i := 0; i < 12; i++ {
		team = ApplyResult(team, 5, 1, 0, models.VenueHome, kickoff)
	}
	assert.Equal(t, "WWWWW", team.Form)
	assert.Len(t, team.FormHistory, models.FormHistoryLength)
	assert.Equal(t, 12, team.MatchesPlayed)
}

func TestApplyResultRatingsStayInRange(t *testing.T) {
	strong := models.NewTeam("Strong")
	weak := models.NewTeam("Weak")
	for i := 0; i < 50; i++ {
		s, w := strong, weak
		strong = ApplyResult(s, w.Overall, 9, 0, models.VenueHome, kickoff)
		weak = ApplyResult(w, s.Overall, 0, 9, models.VenueAway, kickoff)
	}

	for _, team := range []models.Team{strong, weak} {
		for _, v := range []float64{team.Overall, team.Attack, team.Defense, team.HomeStrength, team.AwayStrength, team.FormRating} {
			assert.GreaterOrEqual(t, v, models.MinRating)
			assert.LessOrEqual(t, v, models.MaxRating)
		}
		assert.GreaterOrEqual(t, team.Momentum, -1.0)
		assert.LessOrEqual(t, team.Momentum, 1.0)
	}
	assert.True(t, strong.IsTopTeam)
	assert.True(t, weak.IsBottomTeam)
}

func TestMomentumNeedsSixResults(t *testing.T) {
	team := models.NewTeam("Arsenal")
	for i := 0; i < 5; i++ {
		team = ApplyResult(team, 5, 2, 0, models.VenueHome, kickoff)
		assert.Zero(t, team.Momentum)
	}
	assert.False(t, team.IsImproving)
}

func TestMomentumTurnsImprovingAfterRecovery(t *testing.T) {
	team := models.NewTeam("Arsenal")
	team.FormHistory = "LLLLLL"
	team.Form = "LLLLL"

	team = ApplyResult(team, 5, 1, 0, models.VenueHome, kickoff)
	assert.InDelta(t, 0.4*(3.0/9.0), team.Momentum, 1e-9)
	assert.False(t, team.IsImproving)

	team = ApplyResult(team, 5, 1, 0, models.VenueHome, kickoff)
	require.InDelta(t, 0.6*0.4*(3.0/9.0)+0.4*(6.0/9.0), team.Momentum, 1e-9)
	assert.True(t, team.IsImproving)
	assert.Equal(t, "LLLWW", team.Form)
}

func TestHomeWinThreeNilRaisesMomentumFormAndOverall(t *testing.T) {
	tests := []struct {
		name     string
		history  string
		momentum float64
		form     float64
		overall  float64
	}{
		{name: "steady draws", history: "DDDDD", momentum: 0, form: 5, overall: 5},
		{name: "losing run", history: "LLLLLL", momentum: -0.2, form: 2, overall: 4},
		{name: "good form", history: "LWDWW", momentum: 0.1, form: 7, overall: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team := models.NewTeam("Arsenal")
			team.FormHistory = tt.history
			team.Form = tt.history[len(tt.history)-models.FormLength:]
			team.MatchesPlayed = len(tt.history)
			team.Momentum = tt.momentum
			team.FormRating = tt.form
			team.Overall = tt.overall

			next := ApplyResult(team, 5.0, 3, 0, models.VenueHome, kickoff)

			assert.Greater(t, next.Momentum, team.Momentum)
			assert.Greater(t, next.FormRating, team.FormRating)
			assert.Greater(t, next.Overall, team.Overall)
			assert.Equal(t, byte(models.FormWin), next.FormHistory[len(next.FormHistory)-1])
		})
	}
}

func TestExpectedPerformance(t *testing.T) {
	assert.InDelta(t, 5.0, ExpectedPerformance(5, 5), 1e-9)
	assert.Greater(t, ExpectedPerformance(8, 3), 9.0)
	assert.Less(t, ExpectedPerformance(3, 8), 1.0)
}

func TestMatchPerformanceCapsMargin(t *testing.T) {
	assert.Equal(t, 10.0, matchPerformance(7, 0))
	assert.Equal(t, 8.0, matchPerformance(2, 1))
	assert.Equal(t, 5.0, matchPerformance(2, 2))
	assert.Equal(t, 0.0, matchPerformance(0, 5))
}

func TestApplyMeetingOrientation(t *testing.T) {
	played := models.Match{
		ID:        "m1",
		HomeTeam:  "Liverpool",
		AwayTeam:  "Everton",
		KickoffAt: kickoff,
		Result:    &models.MatchResult{HomeGoals: 2, AwayGoals: 0},
	}

	h2h := ApplyMeeting(models.HeadToHead{}, played)
	assert.Equal(t, "Everton", h2h.TeamA)
	assert.Equal(t, 1, h2h.Meetings)
	assert.Equal(t, 1, h2h.TeamBWins)
	assert.Equal(t, 0, h2h.TeamAGoals)
	assert.Equal(t, 2, h2h.TeamBGoals)

	wins, draws, losses := h2h.Perspective("Liverpool")
	assert.Equal(t, []int{1, 0, 0}, []int{wins, draws, losses})
}

func TestApplyMeetingKeepsRecentFive(t *testing.T) {
	h2h := models.NewHeadToHead("Liverpool", "Everton")
	for i := 0; i < 7; i++ {
		h2h = ApplyMeeting(h2h, models.Match{
			ID:        string(rune('a' + i)),
			HomeTeam:  "Everton",
			AwayTeam:  "Liverpool",
			KickoffAt: kickoff.AddDate(0, i, 0),
			Result:    &models.MatchResult{HomeGoals: 1, AwayGoals: 1},
		})
	}

	assert.Equal(t, 7, h2h.Meetings)
	assert.Equal(t, 7, h2h.Draws)
	require.Len(t, h2h.Recent, models.RecentMeetingsLimit)
	assert.Equal(t, "c", h2h.Recent[0].MatchID)
	assert.Equal(t, "g", h2h.Recent[4].MatchID)
}
