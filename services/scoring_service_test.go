package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfl-pickems-go/models"
)

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 0.0, Accuracy(0, 10))
	assert.Equal(t, 100.0, Accuracy(10, 10))
	assert.Equal(t, 50.0, Accuracy(1, 2))
	assert.Equal(t, 33.33, Accuracy(1, 3))
	assert.Equal(t, 66.67, Accuracy(2, 3))
}

func completedPair(userID int64, week int, picked, winner string, kickoff time.Time) models.PickWithGame {
	var w *string
	if winner != "" {
		w = &winner
	}
	return models.PickWithGame{
		Pick: models.Pick{UserID: userID, Week: week, PickedTeam: picked},
		Game: models.Game{
			Week:      week,
			Season:    2025,
			StartTime: kickoff,
			Status:    models.GameStatusCompleted,
			Winner:    w,
		},
	}
}

func pendingPair(userID int64, week int, picked string, kickoff time.Time) models.PickWithGame {
	return models.PickWithGame{
		Pick: models.Pick{UserID: userID, Week: week, PickedTeam: picked},
		Game: models.Game{
			Week:      week,
			Season:    2025,
			StartTime: kickoff,
			Status:    models.GameStatusScheduled,
		},
	}
}

func TestBuildLeaderboardOrdering(t *testing.T) {
	base := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	pairs := []models.PickWithGame{
		// carol: 2 correct of 2
		completedPair(3, 1, "KC", "KC", base),
		completedPair(3, 1, "BUF", "BUF", base),
		// alice: 1 correct of 2
		completedPair(1, 1, "KC", "KC", base),
		completedPair(1, 1, "DAL", "PHI", base),
		// bob: 1 correct of 2; ties alice on correct, loses on username
		completedPair(2, 1, "PHI", "PHI", base),
		completedPair(2, 1, "NYJ", "NE", base),
	}
	usernames := map[int64]string{1: "alice", 2: "bob", 3: "carol"}

	entries := buildLeaderboard(pairs, usernames, true)

	require.Len(t, entries, 3)
	assert.Equal(t, "carol", entries[0].Username)
	assert.Equal(t, 2, entries[0].Correct)
	assert.Equal(t, "alice", entries[1].Username)
	assert.Equal(t, "bob", entries[2].Username)
	assert.Equal(t, 1, entries[1].WeeksPlayed)

	// One correct of two picks.
	assert.Equal(t, 50.0, entries[1].Accuracy)
}

func TestBuildLeaderboardPendingGamesCountTowardTotal(t *testing.T) {
	base := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	pairs := []models.PickWithGame{
		completedPair(1, 1, "KC", "KC", base),
		pendingPair(1, 2, "KC", base.AddDate(0, 0, 7)),
	}

	entries := buildLeaderboard(pairs, map[int64]string{1: "alice"}, true)

	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Correct)
	assert.Equal(t, 2, entries[0].Total)
	assert.Equal(t, 2, entries[0].WeeksPlayed)
}

func TestBuildLeaderboardTieGameScoresIncorrect(t *testing.T) {
	base := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	pairs := []models.PickWithGame{
		completedPair(1, 1, "KC", "", base), // tie, winner empty -> nil
	}

	entries := buildLeaderboard(pairs, map[int64]string{1: "alice"}, false)

	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Correct)
	assert.Equal(t, 1, entries[0].Total)
}

func TestComputeUserStats(t *testing.T) {
	base := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	week2 := base.AddDate(0, 0, 7)

	// ListWithGamesForUser returns kickoff-descending order.
	pairs := []models.PickWithGame{
		completedPair(1, 2, "KC", "KC", week2.Add(time.Hour)),
		completedPair(1, 2, "BUF", "BUF", week2),
		completedPair(1, 1, "DAL", "PHI", base.Add(time.Hour)),
		completedPair(1, 1, "KC", "KC", base),
	}

	stats := computeUserStats(pairs)

	assert.Equal(t, 3, stats.TotalCorrect)
	assert.Equal(t, 4, stats.TotalPicks)
	assert.Equal(t, 75.0, stats.Accuracy)

	require.Len(t, stats.WeeklyStats, 2)
	assert.Equal(t, 1, stats.WeeklyStats[0].Week)
	assert.Equal(t, 1, stats.WeeklyStats[0].Correct)
	assert.Equal(t, 2, stats.WeeklyStats[1].Week)
	assert.Equal(t, 2, stats.WeeklyStats[1].Correct)

	require.NotNil(t, stats.BestWeek)
	assert.Equal(t, 2, stats.BestWeek.Week)
	assert.Equal(t, 2, stats.BestWeek.Correct)

	// Two correct picks since the most recent miss.
	assert.Equal(t, 2, stats.CurrentStreak)
}

func TestBestWeekPrefersEarlierWeekOnTie(t *testing.T) {
	base := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	pairs := []models.PickWithGame{
		completedPair(1, 2, "KC", "KC", base.AddDate(0, 0, 7)),
		completedPair(1, 1, "BUF", "BUF", base),
	}

	stats := computeUserStats(pairs)

	require.NotNil(t, stats.BestWeek)
	assert.Equal(t, 1, stats.BestWeek.Week)
}

func TestCurrentStreakSkipsUnresolvedGames(t *testing.T) {
	base := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)

	// Most recent first: a pending pick must not interrupt the streak.
	pairs := []models.PickWithGame{
		pendingPair(1, 3, "KC", base.AddDate(0, 0, 14)),
		completedPair(1, 2, "KC", "KC", base.AddDate(0, 0, 7)),
		completedPair(1, 1, "BUF", "BUF", base.Add(time.Hour)),
		completedPair(1, 1, "DAL", "PHI", base),
	}

	assert.Equal(t, 2, currentStreak(pairs))
}

func TestCurrentStreakZeroAfterRecentMiss(t *testing.T) {
	base := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	pairs := []models.PickWithGame{
		completedPair(1, 2, "DAL", "PHI", base.AddDate(0, 0, 7)),
		completedPair(1, 1, "KC", "KC", base),
	}

	assert.Equal(t, 0, currentStreak(pairs))
}

func TestCurrentStreakBrokenByTie(t *testing.T) {
	base := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	pairs := []models.PickWithGame{
		completedPair(1, 2, "KC", "", base.AddDate(0, 0, 7)), // tie
		completedPair(1, 1, "KC", "KC", base),
	}

	assert.Equal(t, 0, currentStreak(pairs))
}

func TestComputeUserStatsEmpty(t *testing.T) {
	stats := computeUserStats(nil)

	assert.Equal(t, 0, stats.TotalPicks)
	assert.Equal(t, 0.0, stats.Accuracy)
	assert.Nil(t, stats.BestWeek)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Empty(t, stats.WeeklyStats)
}
