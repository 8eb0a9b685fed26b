// Package api assembles the postcraft HTTP server.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	infraconfig "github.com/jonesrussell/postcraft/infrastructure/config"
	infragin "github.com/jonesrussell/postcraft/infrastructure/gin"
	infrajwt "github.com/jonesrussell/postcraft/infrastructure/jwt"
	infralogger "github.com/jonesrussell/postcraft/infrastructure/logger"
	"github.com/jonesrussell/postcraft/internal/ratelimit"
)

const ServiceName = "postcraft"

// ServerOptions carries what NewServer needs besides the handlers.
// Nil pings and a nil Registry are skipped.
type ServerOptions struct {
	Server    infraconfig.ServerConfig
	Debug     bool
	Version   string
	Validator *infrajwt.Validator
	Limiter   *ratelimit.Limiter
	Registry  *prometheus.Registry
	DBPing    func(context.Context) error
	RedisPing func(context.Context) error
}

func NewServer(h Handlers, opts ServerOptions, log infralogger.Logger) *infragin.Server {
	b := infragin.NewServerBuilder(ServiceName, opts.Server.Port).
		WithLogger(log).
		WithHost(opts.Server.Host).
		WithDebug(opts.Debug).
		WithVersion(opts.Version).
		WithCORSOrigins(opts.Server.CORSOrigins).
		WithTimeouts(opts.Server.ReadTimeout, opts.Server.WriteTimeout, opts.Server.IdleTimeout, opts.Server.ShutdownTimeout)

	if opts.DBPing != nil {
		b = b.WithDatabaseHealthCheck(opts.DBPing)
	}
	if opts.RedisPing != nil {
		b = b.WithRedisHealthCheck(opts.RedisPing)
	}
	if opts.Registry != nil {
		b = b.WithMetrics(opts.Registry)
	}

	return b.WithRoutes(func(router *gin.Engine) {
		SetupRoutes(router, h, opts.Validator, opts.Limiter)
	}).Build()
}
