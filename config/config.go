package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nfl-pickems-go/logging"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Authentication configuration
	Auth AuthConfig `json:"auth"`

	// Application configuration
	App AppConfig `json:"app"`

	// Backup configuration
	Backup BackupConfig `json:"backup"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`
}

// DatabaseConfig holds SQLite database configuration
type DatabaseConfig struct {
	Path string `json:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
	LogDir      string `json:"log_dir"`
	EnableFile  bool   `json:"enable_file"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret   string        `json:"jwt_secret"`
	TokenExpiry time.Duration `json:"token_expiry"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	CurrentSeason  int           `json:"current_season"`
	IsDevelopment  bool          `json:"is_development"`
	UpdaterEnabled bool          `json:"updater_enabled"`
	UpdateInterval time.Duration `json:"update_interval"`
}

// BackupConfig holds backup configuration
type BackupConfig struct {
	BackupDir string `json:"backup_dir"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Don't treat missing .env as an error
		logging.Warnf("Could not load .env file: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/nfl_pickems.db"),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", "nfl-pickems"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
			LogDir:      getEnv("LOG_DIR", "./logs"),
			EnableFile:  getBoolEnv("LOG_FILE", false),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", "dev_key_change_this_in_production"),
			TokenExpiry: getDurationEnv("TOKEN_EXPIRY", 7*24*time.Hour),
		},
		App: AppConfig{
			CurrentSeason:  getIntEnv("CURRENT_SEASON", defaultSeason()),
			IsDevelopment:  isDevelopment,
			UpdaterEnabled: getBoolEnv("GAME_UPDATER_ENABLED", true),
			UpdateInterval: getDurationEnv("GAME_UPDATE_INTERVAL", 5*time.Minute),
		},
		Backup: BackupConfig{
			BackupDir: getEnv("BACKUP_DIR", "./backups"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// defaultSeason derives the NFL season from the calendar: January through
// July belongs to the previous year's season.
func defaultSeason() int {
	now := time.Now()
	if now.Month() < time.August {
		return now.Year() - 1
	}
	return now.Year()
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == "dev_key_change_this_in_production" && !c.App.IsDevelopment {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if c.App.CurrentSeason < 2020 || c.App.CurrentSeason > 2030 {
		return fmt.Errorf("current season must be between 2020 and 2030, got: %d", c.App.CurrentSeason)
	}

	if c.App.UpdateInterval < time.Minute {
		return fmt.Errorf("game update interval must be at least one minute, got: %v", c.App.UpdateInterval)
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warnf("Invalid boolean value for %s: %q, using default %t", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warnf("Invalid integer value for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warnf("Invalid duration value for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
