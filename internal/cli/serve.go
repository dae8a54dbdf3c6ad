package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/glint-dev/glint/internal/cache"
	"github.com/glint-dev/glint/internal/config"
	"github.com/glint-dev/glint/internal/logging"
	"github.com/glint-dev/glint/internal/orchestrator"
	"github.com/glint-dev/glint/internal/server"
)

const shutdownTimeout = 10 * time.Second

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "glint: %v\n", err)
			exitCode = ExitRuntimeError
		}
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	logger.Info("starting", "env", cfg.Env, "port", cfg.Port)

	store, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	if store.Enabled() {
		logger.Info("response cache enabled", "dir", store.Dir())
	}

	orch := orchestrator.New(cfg.Providers, store, logger)
	if err := orch.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing providers: %w", err)
	}
	defer orch.Cleanup()

	srv := server.New(cfg, logger, orch)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("shutting down", "reason", "context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stopped")
	return nil
}
