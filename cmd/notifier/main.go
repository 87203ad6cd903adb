package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vivaahaverse/vivaah/internal/config"
	"github.com/vivaahaverse/vivaah/internal/notify"
)

// notifier drains booking events and renders the counterparty notification.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Broker.URL == "" {
		slog.Error("AMQP_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer, err := notify.NewConsumer(cfg.Broker.URL, cfg.Broker.Exchange, cfg.Broker.Queue)
	if err != nil {
		slog.Error("failed to start consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	slog.Info("consuming booking events", "queue", cfg.Broker.Queue)

	err = consumer.Run(ctx, func(_ context.Context, e notify.Event) error {
		slog.Info("notification",
			"to", e.TargetUserID,
			"type", e.Type,
			"booking_id", e.BookingID,
			"message", notify.Message(e))

		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
