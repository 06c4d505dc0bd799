// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir             string // Base directory for the database and backups (always absolute)
	BackupDir           string // Directory for local backup archives
	BackupRetention     int    // Number of backup archives to keep
	MaintenanceSchedule string // Cron schedule for the daily maintenance job
	SweepSchedule       string // Cron schedule for the pending-migration sweep
	LogLevel            string
	Port                int
	DevMode             bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic:
	// 1. FINTRACK_DATA_DIR environment variable
	// 2. ./data next to the working directory
	// Always resolved to an absolute path and created if missing.
	dataDir := getEnv("FINTRACK_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	backupDir := getEnv("FINTRACK_BACKUP_DIR", "")
	if backupDir == "" {
		backupDir = filepath.Join(absDataDir, "backups")
	}
	absBackupDir, err := filepath.Abs(backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backup directory path: %w", err)
	}

	cfg := &Config{
		DataDir:             absDataDir,
		BackupDir:           absBackupDir,
		BackupRetention:     getEnvAsInt("BACKUP_RETENTION", 7),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "0 0 2 * * *"), // 2 AM daily
		SweepSchedule:       getEnv("SWEEP_SCHEDULE", "@hourly"),
		Port:                getEnvAsInt("PORT", 8080),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
