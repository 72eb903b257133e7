package ratings

import (
	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/models"
)

// ApplyMeeting returns the aggregate after one more completed meeting between the pair.
func ApplyMeeting(h2h models.HeadToHead, match models.Match) models.HeadToHead {
	if match.Result == nil {
		return h2h
	}
	if h2h.TeamA == "" && h2h.TeamB == "" {
		h2h = models.NewHeadToHead(match.HomeTeam, match.AwayTeam)
	}

	next := h2h
	next.Meetings++

	goalsA, goalsB := match.Result.HomeGoals, match.Result.AwayGoals
	if models.TeamKey(match.HomeTeam) != models.TeamKey(h2h.TeamA) {
		goalsA, goalsB = goalsB, goalsA
	}
	next.TeamAGoals += goalsA
	next.TeamBGoals += goalsB

	switch {
	case goalsA > goalsB:
		next.TeamAWins++
	case goalsA < goalsB:
		next.TeamBWins++
	default:
		next.Draws++
	}

	recent := make([]models.Meeting, 0, models.RecentMeetingsLimit)
	recent = append(recent, h2h.Recent...)
	recent = append(recent, models.Meeting{
		MatchID:   match.ID,
		PlayedAt:  match.KickoffAt,
		HomeTeam:  match.HomeTeam,
		HomeGoals: match.Result.HomeGoals,
		AwayGoals: match.Result.AwayGoals,
	})
	if len(recent) > models.RecentMeetingsLimit {
		recent = recent[len(recent)-models.RecentMeetingsLimit:]
	}
	next.Recent = recent
	next.UpdatedAt = match.KickoffAt
	return next
}
