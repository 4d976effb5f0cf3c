package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nfl-pickems-go/database"
	"nfl-pickems-go/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, repo *database.UserRepository, username string, isAdmin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		IsAdmin:    isAdmin,
		FirstLogin: true,
	}
	require.NoError(t, user.HashPassword("password"))
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createTestGame(t *testing.T, repo *database.GameRepository, espnID string, week int, home, away string, kickoff time.Time) *models.Game {
	t.Helper()
	game := &models.Game{
		ESPNID:    espnID,
		Week:      week,
		Season:    2025,
		HomeTeam:  home,
		AwayTeam:  away,
		StartTime: kickoff,
		Status:    models.GameStatusScheduled,
	}
	require.NoError(t, repo.Create(context.Background(), game))
	return game
}

func completeTestGame(t *testing.T, repo *database.GameRepository, game *models.Game, homeScore, awayScore int) {
	t.Helper()
	feed := &FeedGame{
		ESPNID:    game.ESPNID,
		Completed: true,
		HomeScore: &homeScore,
		AwayScore: &awayScore,
	}
	require.True(t, AdvanceGame(game, feed, time.Now().UTC()))
	require.NoError(t, repo.ApplyAdvance(context.Background(), game))
}
