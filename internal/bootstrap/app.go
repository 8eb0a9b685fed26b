// Package bootstrap wires the postcraft HTTP service together and runs it.
package bootstrap

import (
	"context"
	"fmt"

	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
	infralogger "github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/infrastructure/metrics"
	"github.com/jonesrussell/postcraft/infrastructure/profiling"
	"github.com/jonesrussell/postcraft/internal/api"
	"github.com/jonesrussell/postcraft/internal/config"
	"github.com/jonesrussell/postcraft/internal/database"
	"github.com/jonesrussell/postcraft/internal/handlers"
	"github.com/jonesrussell/postcraft/internal/preview"
	"github.com/jonesrussell/postcraft/internal/ratelimit"
	"github.com/jonesrussell/postcraft/internal/repository"
)

// Options are the serve command's flags.
type Options struct {
	Migrate bool
	Version string
}

// Run starts the service and blocks until ctx is cancelled, a signal
// arrives or the listener fails.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	// Phase 1: logger
	log, err := CreateLogger(cfg, opts.Version)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: profiling (optional)
	if pprofSrv := profiling.StartPprof(cfg.Profiling.Pprof, log); pprofSrv != nil {
		defer func() { _ = pprofSrv.Close() }()
	}
	profiler, err := profiling.StartPyroscope(cfg.Profiling.Pyroscope, "api", opts.Version, log)
	if err != nil {
		log.Warn("Pyroscope unavailable", infralogger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	// Phase 3: database
	db, err := SetupDatabase(ctx, cfg, opts.Migrate, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", infralogger.Error(closeErr))
		}
	}()

	// Phase 4: event publisher (optional)
	publisher, redisClient := SetupEventPublisher(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Phase 5: generation chain and identity provider
	registry := metrics.NewRegistry()
	generator, err := NewGenerationService(cfg.Generation, registry, opts.Version, log)
	if err != nil {
		return err
	}
	idp := NewIdentityClient(cfg.Identity, opts.Version, log)

	// Phase 6: handlers and HTTP server
	profiles := repository.NewProfileRepository(db)
	posts := repository.NewPostRepository(db)
	plans := repository.NewPlanRepository(db)

	h := api.Handlers{
		Auth:       handlers.NewAuthHandler(idp, log),
		Profile:    handlers.NewProfileHandler(profiles, log),
		Post:       handlers.NewPostHandler(profiles, posts, generator, publisher, preview.NewRenderer(), log),
		Generation: handlers.NewGenerationHandler(generator, log),
		Plan:       handlers.NewPlanHandler(profiles, plans, log),
		Dashboard:  handlers.NewDashboardHandler(profiles, posts, log),
	}

	serverOpts := api.ServerOptions{
		Server:    cfg.Server,
		Debug:     cfg.Debug,
		Version:   opts.Version,
		Validator: infrajwt.NewValidator(cfg.Auth.JWTSecret, cfg.Auth.Audience),
		Registry:  registry,
		DBPing:    database.Ping(db),
	}
	if redisClient != nil {
		serverOpts.RedisPing = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(cfg.RateLimit)
		go limiter.Run(runCtx)
		serverOpts.Limiter = limiter
	}

	server := api.NewServer(h, serverOpts, log)

	log.Info("Starting HTTP server",
		infralogger.String("address", cfg.Server.Address()),
		infralogger.String("fallback", cfg.Generation.Fallback),
		infralogger.Bool("rate_limit", cfg.RateLimit.Enabled),
	)
	if runErr := server.RunWithGracefulShutdown(runCtx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
