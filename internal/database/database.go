// Package database opens the PostgreSQL pool and applies schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	infraconfig "github.com/jonesrussell/postcraft/infrastructure/config"
	infracontext "github.com/jonesrussell/postcraft/infrastructure/context"
	"github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/infrastructure/retry"
)

const driverName = "postgres"

// Connect opens the pool and pings it, retrying while the database is
// still coming up.
func Connect(ctx context.Context, cfg infraconfig.DatabaseConfig, log logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingErr := retry.Do(ctx, retry.Config{
		MaxAttempts: 6,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			log.Warn("Database not ready, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Error(err),
			)
		},
	}, func(ctx context.Context) error {
		pingCtx, cancel := infracontext.WithPingTimeout(ctx)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connection established",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("dbname", cfg.Database),
	)
	return db, nil
}

// Ping is the health check used by the HTTP server.
func Ping(db *sqlx.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := infracontext.WithPingTimeout(ctx)
		defer cancel()
		return db.PingContext(ctx)
	}
}
