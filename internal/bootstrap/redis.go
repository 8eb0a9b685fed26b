package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	infraevents "github.com/jonesrussell/postcraft/infrastructure/events"
	infralogger "github.com/jonesrussell/postcraft/infrastructure/logger"
	infraredis "github.com/jonesrussell/postcraft/infrastructure/redis"
	"github.com/jonesrussell/postcraft/internal/config"
	"github.com/jonesrussell/postcraft/internal/events"
)

// SetupEventPublisher returns a nil publisher and client when Redis is
// disabled or unreachable. Events are best effort.
func SetupEventPublisher(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*events.Publisher, *redis.Client) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, post events will not be published")
		return nil, nil
	}

	client, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis not available, events disabled", infralogger.Error(err))
		return nil, nil
	}

	log.Info("Event publisher initialized",
		infralogger.String("redis_address", cfg.Redis.Address),
		infralogger.String("stream", infraevents.StreamName),
	)
	return events.NewPublisher(client, log), client
}
