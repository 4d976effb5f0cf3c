package models

import (
	"time"
)

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusCompleted  GameStatus = "completed"
)

// Game represents an NFL game tracked for pick'em scoring.
// Outcome fields (scores, winner) are populated only on completion and
// are written exclusively by the game updater.
type Game struct {
	ID             int64      `json:"id" db:"id"`
	ESPNID         string     `json:"espn_id" db:"espn_id"`
	Week           int        `json:"week" db:"week"`
	Season         int        `json:"season" db:"season"`
	HomeTeam       string     `json:"home_team" db:"home_team"`
	AwayTeam       string     `json:"away_team" db:"away_team"`
	StartTime      time.Time  `json:"start_time" db:"start_time"`
	IsMNF          bool       `json:"is_mnf" db:"is_mnf"`
	Status         GameStatus `json:"status" db:"status"`
	FinalScoreHome *int       `json:"final_score_home" db:"final_score_home"`
	FinalScoreAway *int       `json:"final_score_away" db:"final_score_away"`
	Winner         *string    `json:"winner" db:"winner"`
}

// IsCompleted returns true if the game has reached its terminal state
func (g *Game) IsCompleted() bool {
	return g.Status == GameStatusCompleted
}

// IsInProgress returns true if the game is currently being played
func (g *Game) IsInProgress() bool {
	return g.Status == GameStatusInProgress
}

// HasStarted reports whether the game's kickoff time has passed
func (g *Game) HasStarted(now time.Time) bool {
	return !now.Before(g.StartTime)
}

// IsLocked reports whether picks for this game are immutable for regular
// users: either the persisted status has left scheduled, or kickoff has
// passed on the wall clock.
func (g *Game) IsLocked(now time.Time) bool {
	return g.Status != GameStatusScheduled || g.HasStarted(now)
}

// WinnerTeam returns the winning team abbreviation, or empty string when
// the game is unresolved or ended in a tie.
func (g *Game) WinnerTeam() string {
	if g.Winner == nil {
		return ""
	}
	return *g.Winner
}

// IsTie reports whether the game completed with equal scores
func (g *Game) IsTie() bool {
	return g.IsCompleted() && g.Winner == nil
}
