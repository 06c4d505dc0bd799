package di

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/config"
	"github.com/nvasilakis/fintrack/internal/database"
)

// InitializeDatabases opens the finance database and runs schema migration
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	financeDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "finance.db"),
		Profile: database.ProfileLedger,
		Name:    "finance",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open finance database: %w", err)
	}

	if err := financeDB.Migrate(); err != nil {
		financeDB.Close()
		return nil, fmt.Errorf("failed to migrate finance database: %w", err)
	}

	log.Info().Str("path", financeDB.Path()).Msg("Finance database ready")

	return &Container{FinanceDB: financeDB}, nil
}
