package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfl-pickems-go/database"
	"nfl-pickems-go/models"
	"nfl-pickems-go/services"
)

func setupAuth(t *testing.T) (*AuthMiddleware, *services.AuthService, *models.User, *models.User) {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := database.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, "test-secret", time.Hour)

	user := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, user.HashPassword("password"))
	require.NoError(t, userRepo.Create(context.Background(), user))

	admin := &models.User{Username: "root", Email: "root@example.com", IsAdmin: true}
	require.NoError(t, admin.HashPassword("password"))
	require.NoError(t, userRepo.Create(context.Background(), admin))

	return NewAuthMiddleware(authService), authService, user, admin
}

func okHandler(sawUser **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawUser = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthWithCookie(t *testing.T) {
	mw, authService, user, _ := setupAuth(t)

	token, err := authService.GenerateToken(user)
	require.NoError(t, err)

	var seen *models.User
	req := httptest.NewRequest(http.MethodGet, "/api/picks", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec := httptest.NewRecorder()

	mw.RequireAuth(okHandler(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
}

func TestRequireAuthWithBearerHeader(t *testing.T) {
	mw, authService, user, _ := setupAuth(t)

	token, err := authService.GenerateToken(user)
	require.NoError(t, err)

	var seen *models.User
	req := httptest.NewRequest(http.MethodGet, "/api/picks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.RequireAuth(okHandler(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Username)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	mw, _, _, _ := setupAuth(t)

	var seen *models.User
	rec := httptest.NewRecorder()
	mw.RequireAuth(okHandler(&seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/picks", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	mw, _, _, _ := setupAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/api/picks", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "garbage"})
	rec := httptest.NewRecorder()

	var seen *models.User
	mw.RequireAuth(okHandler(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	mw, authService, user, admin := setupAuth(t)

	var seen *models.User
	chain := mw.RequireAuth(mw.RequireAdmin(okHandler(&seen)))

	userToken, err := authService.GenerateToken(user)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: userToken})
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := authService.GenerateToken(admin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: adminToken})
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.True(t, seen.IsAdmin)
}
