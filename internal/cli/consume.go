package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"restaurant_reservation/internal/config"
	"restaurant_reservation/internal/events"

	"github.com/spf13/cobra"
)

func NewConsumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Log reservation events from RabbitMQ",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			setupLogging(cfg)
			if cfg.RabbitURL == "" {
				return errors.New("RABBITMQ_URL is required")
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err := events.Consume(ctx, cfg.RabbitURL, events.LogHandler)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
