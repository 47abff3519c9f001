package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Transfer TransferConfig
	Upload   UploadConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds staff access-token configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// TransferConfig holds transfer workflow knobs
type TransferConfig struct {
	// TokenDays is the default token validity window in days
	TokenDays int
	// UrgentDays is the urgency threshold: a token inside this many days of
	// expiry flags the transfer as urgent
	UrgentDays int
	// InfoRequestDeadlineDays is the default homeowner reply deadline
	InfoRequestDeadlineDays int
	// SweepMinutes is the interval of the expiry sweeper; 0 disables it
	SweepMinutes int
}

// UploadConfig holds evidence upload configuration
type UploadConfig struct {
	Dir         string
	MaxUploadMB int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Transfer: loadTransferConfig(),
		Upload:   loadUploadConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "solarhub_transferdesk"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadTransferConfig loads transfer workflow knobs
func loadTransferConfig() TransferConfig {
	tokenDays, _ := strconv.Atoi(getEnv("TRANSFER_TOKEN_DAYS", "14"))
	urgentDays, _ := strconv.Atoi(getEnv("TRANSFER_URGENT_DAYS", "3"))
	deadlineDays, _ := strconv.Atoi(getEnv("INFO_REQUEST_DEADLINE_DAYS", "7"))
	sweepMinutes, _ := strconv.Atoi(getEnv("EXPIRY_SWEEP_MINUTES", "60"))

	return TransferConfig{
		TokenDays:               tokenDays,
		UrgentDays:              urgentDays,
		InfoRequestDeadlineDays: deadlineDays,
		SweepMinutes:            sweepMinutes,
	}
}

// loadUploadConfig loads evidence upload configuration
func loadUploadConfig() UploadConfig {
	maxMB, _ := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "10"))

	return UploadConfig{
		Dir:         getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadMB: maxMB,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://transferdesk.solarhub.example"
	}
	return origins
}
