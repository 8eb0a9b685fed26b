// Package profiling starts the optional pprof listener and Pyroscope agent.
package profiling

import (
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
)

// PprofConfig enables the pprof listener. It always binds to localhost.
type PprofConfig struct {
	Enabled bool   `env:"ENABLE_PROFILING" yaml:"enabled"`
	Port    string `env:"PPROF_PORT"       yaml:"port"`
}

// StartPprof serves /debug/pprof/ on its own mux and returns the server so
// the caller can shut it down. It returns nil when disabled.
func StartPprof(cfg PprofConfig, log logger.Logger) *http.Server {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Port == "" {
		cfg.Port = "6060"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{
		Addr:              "localhost:" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Starting pprof server", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server stopped", logger.Error(err))
		}
	}()
	return srv
}
