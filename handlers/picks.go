package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"nfl-pickems-go/logging"
	"nfl-pickems-go/middleware"
	"nfl-pickems-go/models"
	"nfl-pickems-go/services"
)

// PickHandler handles pick submission and retrieval
type PickHandler struct {
	pickService *services.PickService
	logger      *logging.Logger
}

// NewPickHandler creates a new pick handler
func NewPickHandler(pickService *services.PickService) *PickHandler {
	return &PickHandler{
		pickService: pickService,
		logger:      logging.WithPrefix("PickHandler"),
	}
}

// GetPicks handles GET /api/picks?week=N, returning the caller's picks
func (h *PickHandler) GetPicks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	week, err := weekParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid week")
		return
	}

	picks, err := h.pickService.GetUserWeekPicks(r.Context(), user.ID, week)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWeek) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorf("Failed to load picks for user %d week %d: %v", user.ID, week, err)
		respondError(w, http.StatusInternalServerError, "Failed to load picks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"week":    week,
		"picks":   picks,
	})
}

// SubmitPicks handles POST /api/picks
func (h *PickHandler) SubmitPicks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var submission models.WeekSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.pickService.SubmitWeekPicks(r.Context(), user, submission); err != nil {
		switch {
		case errors.Is(err, services.ErrPicksLocked):
			respondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrInvalidWeek),
			errors.Is(err, services.ErrGameNotFound),
			errors.Is(err, services.ErrMNFPointsRequired):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Errorf("Failed to save picks for user %d: %v", user.ID, err)
			respondError(w, http.StatusInternalServerError, "Failed to save picks")
		}
		return
	}

	h.logger.Infof("Saved %d picks for user %s week %d", len(submission.Picks), user.Username, submission.Week)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// GetAllPicks handles GET /api/get_picks?week=N, returning every user's
// picks for the week so the grid view can render them side by side
func (h *PickHandler) GetAllPicks(w http.ResponseWriter, r *http.Request) {
	week, err := weekParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid week")
		return
	}

	picks, err := h.pickService.GetWeekPicks(r.Context(), week)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWeek) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorf("Failed to load week %d picks: %v", week, err)
		respondError(w, http.StatusInternalServerError, "Failed to load picks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"week":    week,
		"picks":   picks,
	})
}

func weekParam(r *http.Request) (int, error) {
	return strconv.Atoi(r.URL.Query().Get("week"))
}
