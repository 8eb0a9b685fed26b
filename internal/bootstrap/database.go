package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	infralogger "github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/config"
	"github.com/jonesrussell/postcraft/internal/database"
)

// SetupDatabase connects and, when migrate is set, applies pending
// migrations first.
func SetupDatabase(ctx context.Context, cfg *config.Config, migrate bool, log infralogger.Logger) (*sqlx.DB, error) {
	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	if !migrate {
		return db, nil
	}

	m, err := database.NewMigrator(cfg.Database.MigrationURL(), log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	defer func() { _ = m.Close() }()

	if err = m.Up(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
