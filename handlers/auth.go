package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"nfl-pickems-go/logging"
	"nfl-pickems-go/middleware"
	"nfl-pickems-go/models"
	"nfl-pickems-go/services"
)

// AuthHandler handles login, logout and password changes
type AuthHandler struct {
	authService *services.AuthService
	tokenExpiry time.Duration
	secureFlag  bool
	logger      *logging.Logger
}

// NewAuthHandler creates a new authentication handler. secureFlag controls
// the Secure attribute on the auth cookie and should be true in production.
func NewAuthHandler(authService *services.AuthService, tokenExpiry time.Duration, secureFlag bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokenExpiry: tokenExpiry,
		secureFlag:  secureFlag,
		logger:      logging.WithPrefix("AuthHandler"),
	}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warnf("Failed login attempt for user %q", req.Username)
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenExpiry),
		HttpOnly: true,
		Secure:   h.secureFlag,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, models.AuthResponse{
		Success:    true,
		IsAdmin:    user.IsAdmin,
		FirstLogin: user.FirstLogin,
		Token:      token,
	})
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureFlag,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ChangePassword handles POST /api/change_password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user, req.NewPassword); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Infof("Password changed for user %s", user.Username)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
