package models

// LeaderboardEntry is one row of a weekly or season leaderboard
type LeaderboardEntry struct {
	UserID      int64   `json:"id"`
	Username    string  `json:"username"`
	Correct     int     `json:"correct"`
	Total       int     `json:"total"`
	WeeksPlayed int     `json:"weeks_played,omitempty"`
	Accuracy    float64 `json:"accuracy"`
}

// WeeklyStat is a user's pick record for a single week
type WeeklyStat struct {
	Week     int     `json:"week"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// BestWeek identifies the week in which a user scored the most correct picks
type BestWeek struct {
	Week    int `json:"week"`
	Correct int `json:"correct"`
}

// UserStats is the season-level stat summary for a single user
type UserStats struct {
	TotalCorrect  int          `json:"total_correct"`
	TotalPicks    int          `json:"total_picks"`
	Accuracy      float64      `json:"accuracy"`
	BestWeek      *BestWeek    `json:"best_week"`
	CurrentStreak int          `json:"current_streak"`
	WeeklyStats   []WeeklyStat `json:"weekly_stats"`
}
