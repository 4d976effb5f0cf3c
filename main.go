package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"nfl-pickems-go/config"
	"nfl-pickems-go/database"
	"nfl-pickems-go/handlers"
	"nfl-pickems-go/logging"
	"nfl-pickems-go/middleware"
	"nfl-pickems-go/models"
	"nfl-pickems-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Logging.EnableFile {
		logger, err := logging.NewWithFile(cfg.Logging.Level, cfg.Logging.LogDir)
		if err != nil {
			logging.Fatalf("Failed to set up file logging: %v", err)
		}
		logging.SetGlobalLogger(logger)
	} else {
		logging.Configure(logging.Config{
			Level:       cfg.Logging.Level,
			Output:      os.Stdout,
			Prefix:      cfg.Logging.Prefix,
			EnableColor: cfg.Logging.EnableColor,
		})
	}

	logging.Infof("Starting nfl-pickems (season %d, environment %s)", cfg.App.CurrentSeason, cfg.Server.Environment)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		logging.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	userRepo := database.NewUserRepository(db)
	gameRepo := database.NewGameRepository(db)
	pickRepo := database.NewPickRepository(db)

	if err := seedAdminUser(userRepo); err != nil {
		logging.Fatalf("Failed to seed admin user: %v", err)
	}

	espnClient := services.NewESPNClient()
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	pickService := services.NewPickService(pickRepo, gameRepo)
	scoringService := services.NewScoringService(pickRepo, userRepo, cfg.App.CurrentSeason)
	gameService := services.NewGameService(gameRepo, espnClient, cfg.App.CurrentSeason)
	backupService := services.NewBackupService(db, cfg.Backup.BackupDir)

	updater := services.NewGameUpdater(espnClient, db, gameRepo, cfg.App.CurrentSeason, cfg.App.UpdateInterval)
	if cfg.App.UpdaterEnabled {
		updater.Start()
		defer updater.Stop()
	} else {
		logging.Info("Game updater disabled by configuration")
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService, cfg.Auth.TokenExpiry, !cfg.App.IsDevelopment)
	pickHandler := handlers.NewPickHandler(pickService)
	gameHandler := handlers.NewGameHandler(gameService)
	statsHandler := handlers.NewStatsHandler(scoringService)
	adminHandler := handlers.NewAdminHandler(userRepo, backupService)

	router := buildRouter(authMiddleware, authHandler, pickHandler, gameHandler, statsHandler, adminHandler)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Infof("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("Server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logging.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("Graceful shutdown failed: %v", err)
	}
}

func buildRouter(
	authMW *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	pickHandler *handlers.PickHandler,
	gameHandler *handlers.GameHandler,
	statsHandler *handlers.StatsHandler,
	adminHandler *handlers.AdminHandler,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/logout", authHandler.Logout).Methods("GET", "POST")

	// Routes requiring a logged-in user
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(authMW.RequireAuth)
	authed.HandleFunc("/change_password", authHandler.ChangePassword).Methods("POST")
	authed.HandleFunc("/games/week/{week:[0-9]+}", gameHandler.GetWeekGames).Methods("GET")
	authed.HandleFunc("/picks", pickHandler.GetPicks).Methods("GET")
	authed.HandleFunc("/picks", pickHandler.SubmitPicks).Methods("POST")
	authed.HandleFunc("/get_picks", pickHandler.GetAllPicks).Methods("GET")
	authed.HandleFunc("/leaderboard", statsHandler.SeasonLeaderboard).Methods("GET")
	authed.HandleFunc("/leaderboard/season", statsHandler.SeasonLeaderboard).Methods("GET")
	authed.HandleFunc("/leaderboard/weekly", statsHandler.WeeklyLeaderboard).Methods("GET")
	authed.HandleFunc("/stats", statsHandler.UserStats).Methods("GET")

	// Admin-only routes
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(authMW.RequireAuth, authMW.RequireAdmin)
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users", adminHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users", adminHandler.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users", adminHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/backup", adminHandler.CreateBackup).Methods("POST")
	admin.HandleFunc("/backups", adminHandler.ListBackups).Methods("GET")
	admin.HandleFunc("/backup/restore", adminHandler.RestoreBackup).Methods("POST")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return router
}

// seedAdminUser creates the initial admin account on an empty database so
// the app is usable out of the box. The password must be changed on first login.
func seedAdminUser(userRepo *database.UserRepository) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := userRepo.GetByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	admin := &models.User{
		Username:   "admin",
		Email:      "admin@example.com",
		IsAdmin:    true,
		FirstLogin: true,
	}
	if err := admin.HashPassword("admin"); err != nil {
		return err
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	logging.Warn("Created default admin user; change its password on first login")
	return nil
}
