package handlers

import (
	"net/http"
	"strconv"

	"nfl-pickems-go/logging"
	"nfl-pickems-go/middleware"
	"nfl-pickems-go/services"
)

// StatsHandler serves leaderboards and per-user statistics
type StatsHandler struct {
	scoringService *services.ScoringService
	logger         *logging.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(scoringService *services.ScoringService) *StatsHandler {
	return &StatsHandler{
		scoringService: scoringService,
		logger:         logging.WithPrefix("StatsHandler"),
	}
}

// SeasonLeaderboard handles GET /api/leaderboard and /api/leaderboard/season
func (h *StatsHandler) SeasonLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scoringService.SeasonLeaderboard(r.Context())
	if err != nil {
		h.logger.Errorf("Failed to build season leaderboard: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"leaderboard": entries,
	})
}

// WeeklyLeaderboard handles GET /api/leaderboard/weekly?week=N
func (h *StatsHandler) WeeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < 1 || week > 18 {
		respondError(w, http.StatusBadRequest, "Invalid week")
		return
	}

	entries, err := h.scoringService.WeeklyLeaderboard(r.Context(), week)
	if err != nil {
		h.logger.Errorf("Failed to build week %d leaderboard: %v", week, err)
		respondError(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"week":        week,
		"leaderboard": entries,
	})
}

// UserStats handles GET /api/stats and GET /api/stats?user_id=N. Viewing
// another user's stats requires admin.
func (h *StatsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID := user.ID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid user_id")
			return
		}
		if id != user.ID && !user.IsAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		targetID = id
	}

	stats, err := h.scoringService.UserStats(r.Context(), targetID)
	if err != nil {
		h.logger.Errorf("Failed to build stats for user %d: %v", targetID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}
