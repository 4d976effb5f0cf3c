package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"nfl-pickems-go/logging"
	"nfl-pickems-go/services"
)

// GameHandler serves game schedules and scores
type GameHandler struct {
	gameService *services.GameService
	logger      *logging.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		logger:      logging.WithPrefix("GameHandler"),
	}
}

// GetWeekGames handles GET /api/games/week/{week}
func (h *GameHandler) GetWeekGames(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	week, err := strconv.Atoi(vars["week"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid week")
		return
	}

	games, err := h.gameService.GetGamesForWeek(r.Context(), week)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWeek) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorf("Failed to load week %d games: %v", week, err)
		respondError(w, http.StatusInternalServerError, "Failed to load games")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"week":    week,
		"games":   games,
	})
}
