package models

import (
	"time"
)

// Pick represents a user's prediction for one game in one week
type Pick struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	GameID         int64     `json:"game_id" db:"game_id"`
	PickedTeam     string    `json:"picked_team" db:"picked_team"`
	Week           int       `json:"week" db:"week"`
	MNFTotalPoints *int      `json:"mnf_total_points" db:"mnf_total_points"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// IsCorrect returns nil while the game is unresolved, otherwise whether
// the picked team matches the game's winner. A tie resolves every pick
// on the game as incorrect.
func (p *Pick) IsCorrect(game *Game) *bool {
	if game == nil || !game.IsCompleted() {
		return nil
	}
	correct := game.Winner != nil && p.PickedTeam == *game.Winner
	return &correct
}

// PickSubmission is one entry in a weekly picks submission
type PickSubmission struct {
	GameID         int64  `json:"game_id"`
	PickedTeam     string `json:"picked_team"`
	MNFTotalPoints *int   `json:"mnf_total_points"`
}

// WeekSubmission is the full batch of picks a user submits for a week.
// The batch replaces the user's prior picks for the week atomically.
type WeekSubmission struct {
	Week  int              `json:"week"`
	Picks []PickSubmission `json:"picks"`
}

// PickWithGame joins a pick with the game it references; the scoring
// engine operates over these pairs.
type PickWithGame struct {
	Pick Pick
	Game Game
}
