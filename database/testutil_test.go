package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nfl-pickems-go/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, repo *UserRepository, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstLogin:   true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedGame(t *testing.T, repo *GameRepository, espnID string, week int, kickoff time.Time) *models.Game {
	t.Helper()
	game := &models.Game{
		ESPNID:    espnID,
		Week:      week,
		Season:    2025,
		HomeTeam:  "KC",
		AwayTeam:  "BUF",
		StartTime: kickoff,
		Status:    models.GameStatusScheduled,
	}
	require.NoError(t, repo.Create(context.Background(), game))
	return game
}
