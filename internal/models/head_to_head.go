package models

import "time"

// RecentMeetingsLimit bounds the meeting list kept on a HeadToHead.
const RecentMeetingsLimit = 5

// Meeting is one completed fixture between a pair of teams
type Meeting struct {
	MatchID   string    `json:"match_id"`
	PlayedAt  time.Time `json:"played_at"`
	HomeTeam  string    `json:"home_team"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
}

// HeadToHead aggregates every recorded meeting between two teams.
// TeamA and TeamB are stored in canonical order (see HeadToHeadPair).
type HeadToHead struct {
	TeamA      string    `db:"team_a" json:"team_a"`
	TeamB      string    `db:"team_b" json:"team_b"`
	Meetings   int       `db:"meetings" json:"meetings"`
	TeamAWins  int       `db:"team_a_wins" json:"team_a_wins"`
	Draws      int       `db:"draws" json:"draws"`
	TeamBWins  int       `db:"team_b_wins" json:"team_b_wins"`
	TeamAGoals int       `db:"team_a_goals" json:"team_a_goals"`
	TeamBGoals int       `db:"team_b_goals" json:"team_b_goals"`
	Recent     []Meeting `db:"recent" json:"recent"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// HeadToHeadPair returns the two names in canonical order.
func HeadToHeadPair(a, b string) (string, string) {
	if TeamKey(b) < TeamKey(a) {
		return b, a
	}
	return a, b
}

// HeadToHeadKey returns the lookup key for a pair of teams regardless of order.
func HeadToHeadKey(a, b string) string {
	first, second := HeadToHeadPair(a, b)
	return TeamKey(first) + "|" + TeamKey(second)
}

// NewHeadToHead creates an empty aggregate for a pair.
func NewHeadToHead(a, b string) HeadToHead {
	first, second := HeadToHeadPair(a, b)
	return HeadToHead{TeamA: first, TeamB: second}
}

// Perspective returns wins, draws and losses as seen from the given home team.
func (h HeadToHead) Perspective(home string) (homeWins, draws, awayWins int) {
	if TeamKey(home) == TeamKey(h.TeamA) {
		return h.TeamAWins, h.Draws, h.TeamBWins
	}
	return h.TeamBWins, h.Draws, h.TeamAWins
}
