package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"nfl-pickems-go/database"
	"nfl-pickems-go/logging"
	"nfl-pickems-go/models"
	"nfl-pickems-go/services"
)

// defaultUserPassword is assigned to admin-created accounts; the user is
// forced to change it on first login.
const defaultUserPassword = "password"

// AdminHandler handles user management and database backups
type AdminHandler struct {
	userRepo      *database.UserRepository
	backupService *services.BackupService
	logger        *logging.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userRepo *database.UserRepository, backupService *services.BackupService) *AdminHandler {
	return &AdminHandler{
		userRepo:      userRepo,
		backupService: backupService,
		logger:        logging.WithPrefix("AdminHandler"),
	}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List(r.Context())
	if err != nil {
		h.logger.Errorf("Failed to list users: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}

	safe := make([]models.User, 0, len(users))
	for i := range users {
		safe = append(safe, users[i].ToSafeUser())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   safe,
	})
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// CreateUser handles POST /api/admin/users. New accounts start with the
// default password and first_login set so the user must change it.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Username and email required")
		return
	}

	user := &models.User{
		Username:   req.Username,
		Email:      req.Email,
		IsAdmin:    req.IsAdmin,
		FirstLogin: true,
	}
	if err := user.HashPassword(defaultUserPassword); err != nil {
		h.logger.Errorf("Failed to hash password: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if err := h.userRepo.Create(r.Context(), user); err != nil {
		h.logger.Errorf("Failed to create user %q: %v", req.Username, err)
		respondError(w, http.StatusBadRequest, "Username or email already exists")
		return
	}

	h.logger.Infof("Created user %s (admin=%v)", user.Username, user.IsAdmin)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.ToSafeUser(),
	})
}

type updateUserRequest struct {
	ID       int64   `json:"id"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	IsAdmin  *bool   `json:"is_admin"`
	Password *string `json:"password"`
}

// UpdateUser handles PUT /api/admin/users. A password set here flips
// first_login back on so the user is prompted to pick their own.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Errorf("Failed to load user %d: %v", req.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.HashPassword(*req.Password); err != nil {
			h.logger.Errorf("Failed to hash password: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		user.FirstLogin = true
	}

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		h.logger.Errorf("Failed to update user %d: %v", req.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.ToSafeUser(),
	})
}

// DeleteUser handles DELETE /api/admin/users?id=N. Picks go with the user
// via the foreign key cascade.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Errorf("Failed to delete user %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	h.logger.Infof("Deleted user %d", id)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// CreateBackup handles POST /api/admin/backup
func (h *AdminHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	path, err := h.backupService.CreateBackup(r.Context())
	if err != nil {
		h.logger.Errorf("Backup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Backup failed")
		return
	}

	h.logger.Infof("Created backup %s", path)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"backup_path": path,
	})
}

// ListBackups handles GET /api/admin/backups
func (h *AdminHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backupService.ListBackups()
	if err != nil {
		h.logger.Errorf("Failed to list backups: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list backups")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"backups": backups,
	})
}

type restoreBackupRequest struct {
	BackupPath string `json:"backup_path"`
}

// RestoreBackup handles POST /api/admin/backup/restore
func (h *AdminHandler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req restoreBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BackupPath == "" {
		respondError(w, http.StatusBadRequest, "backup_path required")
		return
	}

	if err := h.backupService.RestoreBackup(r.Context(), req.BackupPath); err != nil {
		h.logger.Errorf("Restore from %s failed: %v", req.BackupPath, err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Warnf("Restored database from %s", req.BackupPath)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
