package app

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hurtuk18/server-announcements-be/internal/config"
	"github.com/Hurtuk18/server-announcements-be/internal/db"
)

var started atomic.Bool

// Run loads and validates the configuration, connects the database and
// serves HTTP until ctx is cancelled. A second call within the same
// process is a no-op.
func Run(ctx context.Context) error {
	if !started.CompareAndSwap(false, true) {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Startup gate: prints diagnostics and exits on schema violations.
	config.MustValidate(cfg)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg.EnsureDatabaseURLEnv()

	pool, err := db.NewPool(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer pool.Close()

	container, err := NewContainer(Config{Cfg: cfg, DBPool: pool})
	if err != nil {
		return err
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Service.HTTPPort),
		Handler: container.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("service", cfg.Service.Name).
			Int("port", cfg.Service.HTTPPort).
			Msgf("swagger-ui available on http://localhost:%d/docs/%s", cfg.Service.HTTPPort, cfg.Service.Name)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited gracefully")
	return nil
}
