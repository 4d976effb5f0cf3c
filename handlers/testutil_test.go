package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nfl-pickems-go/database"
	"nfl-pickems-go/middleware"
	"nfl-pickems-go/models"
)

type testEnv struct {
	db       *database.DB
	userRepo *database.UserRepository
	gameRepo *database.GameRepository
	pickRepo *database.PickRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &testEnv{
		db:       db,
		userRepo: database.NewUserRepository(db),
		gameRepo: database.NewGameRepository(db),
		pickRepo: database.NewPickRepository(db),
	}
}

func (e *testEnv) createUser(t *testing.T, username string, isAdmin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		IsAdmin:    isAdmin,
		FirstLogin: true,
	}
	require.NoError(t, user.HashPassword("password"))
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) createGame(t *testing.T, espnID string, week int, kickoff time.Time) *models.Game {
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
	require.NoError(t, e.gameRepo.Create(context.Background(), game))
	return game
}

// asUser attaches the user to the request context the way the auth
// middleware does.
func asUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserKey, user)
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
