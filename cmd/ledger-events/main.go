// Command ledger-events consumes the ledger events published by cofrinho
// and logs each one.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cofrinho/internal/amqp"
	"cofrinho/internal/config"
	"cofrinho/internal/core"
	"cofrinho/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Failed to load configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentAMQP,
		JSON:      strings.EqualFold(cfg.LogFormat, "json"),
		Output:    os.Stdout,
	})
	log.SetDefault(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	household := cfg.Household()
	logger.Info("Consuming ledger events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	err = client.Consume(ctx, func(ctx context.Context, ev *amqp.LedgerEvent) error {
		logger.InfoContext(ctx, "Ledger event",
			"type", string(ev.Type),
			log.FieldEntryID, ev.EntryID,
			log.FieldMonth, core.MonthName(ev.Month),
			log.FieldAmount, ev.Amount,
			log.FieldKind, ev.Kind,
			log.FieldCategory, ev.Category,
			log.FieldOwner, household.Name(core.Owner(ev.Owner)),
			"timestamp", ev.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Consumer stopped")
}
