package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/healthconnect-api/internal/config"
	"github.com/iliyamo/healthconnect-api/internal/database"
	"github.com/iliyamo/healthconnect-api/internal/metrics"
)

var (
	// Server flags (override config/env)
	serverPort    string
	skipMigration bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (and .env when present)
- Apply pending schema migrations unless --skip-migrate is given
- Connect to Redis and RabbitMQ when configured
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with the embedded SQLite database
  healthconnect serve

  # Start on another port with debug logging
  healthconnect serve --port 9090 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverPort, "port", "", "server port (default: 8000)")
	serveCmd.Flags().BoolVar(&skipMigration, "skip-migrate", false, "do not apply migrations on start")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverPort != "" {
		cfg.Port = serverPort
	}

	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info().Str("env", cfg.Env).Msg("starting healthconnect api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !skipMigration {
		mctx, cancel := context.WithTimeout(ctx, time.Minute)
		err := database.MigrateUp(mctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer func() { _ = db.Close() }()
	metrics.RegisterDBStats(db.DB)
	logger.Info().Str("dialect", string(db.Dialect)).Msg("database ready")

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	} else {
		logger.Warn().Msg("redis unavailable; rate limiting in process, cache off")
	}

	api, drain := buildAPI(cfg, db, rdb, logger)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(sctx)
		drain()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
