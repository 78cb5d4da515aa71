package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/healthconnect-api/internal/config"
	"github.com/iliyamo/healthconnect-api/internal/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume appointment.booked events and write notifications",
	Long: `Consume appointment.booked events from RabbitMQ and append one line per
booking to $NOTIFY_LOG_DIR/appointments.log.

Requires RABBITMQ_URL (or AMQP_URL).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorker()
	},
}

func runWorker() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if cfg.AMQPURL == "" {
		return errors.New("worker needs RABBITMQ_URL or AMQP_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("dir", cfg.NotifyLogDir).Msg("starting notification worker")
	err = queue.NewConsumer(cfg.AMQPURL, cfg.NotifyLogDir, logger).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("worker stopped")
	return nil
}
