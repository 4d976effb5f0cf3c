package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfl-pickems-go/services"
)

// staticFeed serves games handler tests where the store already has rows
type staticFeed struct{}

func (staticFeed) CurrentWeek(ctx context.Context) (int, error) { return 1, nil }
func (staticFeed) GamesForWeek(ctx context.Context, week int) ([]services.FeedGame, error) {
	return nil, nil
}

func TestGetWeekGamesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	svc := services.NewGameService(env.gameRepo, staticFeed{}, 2025)
	handler := NewGameHandler(svc)

	env.createGame(t, "401001", 1, time.Now().UTC().Add(time.Hour))
	env.createGame(t, "401002", 1, time.Now().UTC().Add(4*time.Hour))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/games/week/1", nil),
		map[string]string{"week": "1"})
	rec := httptest.NewRecorder()
	handler.GetWeekGames(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, float64(1), resp["week"])
	games := resp["games"].([]interface{})
	require.Len(t, games, 2)
	assert.Equal(t, "401001", games[0].(map[string]interface{})["espn_id"])
}

func TestGetWeekGamesInvalidWeekReturns400(t *testing.T) {
	env := newTestEnv(t)
	handler := NewGameHandler(services.NewGameService(env.gameRepo, staticFeed{}, 2025))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/games/week/99", nil),
		map[string]string{"week": "99"})
	rec := httptest.NewRecorder()
	handler.GetWeekGames(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
