package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Neutral priors for teams without recorded history.
const (
	DefaultRating        = 5.0
	DefaultGoalsPerMatch = 1.2
	MinRating            = 0.0
	MaxRating            = 10.0
)

// Form string limits. FormHistory keeps enough results for the momentum window.
const (
	FormLength        = 5
	FormHistoryLength = 10
)

// Flag thresholds
const (
	TopTeamThreshold    = 7.5
	BottomTeamThreshold = 2.5
	ImprovingThreshold  = 0.3
)

// Form characters
const (
	FormWin  = 'W'
	FormDraw = 'D'
	FormLoss = 'L'
)

// teamNamespace derives stable team IDs from normalized names.
var teamNamespace = uuid.MustParse("6f1c1b9e-3f4a-4b7e-9a54-0c2d5e8f7a10")

// VenueStats holds results recorded at one venue side.
type VenueStats struct {
	Played       int `json:"played"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

// WinRate returns wins per match played at this venue.
func (v VenueStats) WinRate() float64 {
	if v.Played == 0 {
		return 0
	}
	return float64(v.Wins) / float64(v.Played)
}

// DrawRate returns draws per match played at this venue.
func (v VenueStats) DrawRate() float64 {
	if v.Played == 0 {
		return 0
	}
	return float64(v.Draws) / float64(v.Played)
}

// Team represents a club's strength and form state
type Team struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Name           string     `db:"name" json:"name" validate:"required"`
	Overall        float64    `db:"overall_rating" json:"overall_rating" validate:"gte=0,lte=10"`
	Attack         float64    `db:"attack_rating" json:"attack_rating" validate:"gte=0,lte=10"`
	Defense        float64    `db:"defense_rating" json:"defense_rating" validate:"gte=0,lte=10"`
	HomeStrength   float64    `db:"home_strength" json:"home_strength" validate:"gte=0,lte=10"`
	AwayStrength   float64    `db:"away_strength" json:"away_strength" validate:"gte=0,lte=10"`
	MatchesPlayed  int        `db:"matches_played" json:"matches_played"`
	Wins           int        `db:"wins" json:"wins"`
	Draws          int        `db:"draws" json:"draws"`
	Losses         int        `db:"losses" json:"losses"`
	GoalsScored    int        `db:"goals_scored" json:"goals_scored"`
	GoalsConceded  int        `db:"goals_conceded" json:"goals_conceded"`
	GoalDifference int        `db:"goal_difference" json:"goal_difference"`
	Points         int        `db:"points" json:"points"`
	Form           string     `db:"form" json:"form"`
	FormHistory    string     `db:"form_history" json:"form_history"`
	FormRating     float64    `db:"form_rating" json:"form_rating" validate:"gte=0,lte=10"`
	Momentum       float64    `db:"momentum" json:"momentum" validate:"gte=-1,lte=1"`
	HomeStats      VenueStats `db:"home_stats" json:"home_stats"`
	AwayStats      VenueStats `db:"away_stats" json:"away_stats"`

	IsTopTeam        bool `db:"is_top_team" json:"is_top_team"`
	IsBottomTeam     bool `db:"is_bottom_team" json:"is_bottom_team"`
	HasHomeAdvantage bool `db:"has_home_advantage" json:"has_home_advantage"`
	IsImproving      bool `db:"is_improving" json:"is_improving"`

	Version   int64     `db:"version" json:"version"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeamKey normalizes a team name for lookups.
func TeamKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// TeamID returns the stable identifier for a team name.
func TeamID(name string) uuid.UUID {
	return uuid.NewSHA1(teamNamespace, []byte(TeamKey(name)))
}

// NewTeam creates a team carrying the neutral default ratings.
func NewTeam(name string) Team {
	t := Team{
		ID:           TeamID(name),
		Name:         strings.TrimSpace(name),
		Overall:      DefaultRating,
		Attack:       DefaultRating,
		Defense:      DefaultRating,
		HomeStrength: DefaultRating,
		AwayStrength: DefaultRating,
		FormRating:   DefaultRating,
	}
	t.RecomputeFlags()
	return t
}

// AvgGoalsScored returns goals scored per match, or the neutral prior.
func (t Team) AvgGoalsScored() float64 {
	if t.MatchesPlayed == 0 {
		return DefaultGoalsPerMatch
	}
	return float64(t.GoalsScored) / float64(t.MatchesPlayed)
}

// AvgGoalsConceded returns goals conceded per match, or the neutral prior.
func (t Team) AvgGoalsConceded() float64 {
	if t.MatchesPlayed == 0 {
		return DefaultGoalsPerMatch
	}
	return float64(t.GoalsConceded) / float64(t.MatchesPlayed)
}

// GoalDifferencePerMatch returns the average goal margin.
func (t Team) GoalDifferencePerMatch() float64 {
	if t.MatchesPlayed == 0 {
		return 0
	}
	return float64(t.GoalDifference) / float64(t.MatchesPlayed)
}

// Venue returns the stats for one venue side.
func (t Team) Venue(v Venue) VenueStats {
	if v == VenueAway {
		return t.AwayStats
	}
	return t.HomeStats
}

// RecomputeFlags derives the boolean flags from the current ratings.
func (t *Team) RecomputeFlags() {
	t.IsTopTeam = t.Overall >= TopTeamThreshold
	t.IsBottomTeam = t.Overall <= BottomTeamThreshold
	t.HasHomeAdvantage = t.HomeStrength > t.AwayStrength
	t.IsImproving = t.Momentum > ImprovingThreshold
}
