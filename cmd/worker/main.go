// The worker runs the audit pipeline: the relay drains the outbox into Kafka
// and the consumer materializes the topic back into the audit_events table.
// Services write audit events to the outbox in their own transactions; both
// legs are at-least-once and the materializer is idempotent per event id.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"trafficwatch/internal/platform/config"
	"trafficwatch/internal/platform/logger"
	"trafficwatch/internal/platform/postgres"
	auditkafka "trafficwatch/pkg/platform/audit/kafka"
	auditpg "trafficwatch/pkg/platform/audit/store/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.Kafka.Brokers) == 0 {
		log.Error("KAFKA_BROKERS is not set; the relay has nowhere to publish")
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	producer, err := auditkafka.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
	if err != nil {
		log.Error("connect kafka", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	store := auditpg.New(db)
	relay := auditkafka.NewRelay(store, producer,
		auditkafka.WithInterval(cfg.Kafka.RelayInterval),
		auditkafka.WithLogger(log),
	)

	consumer, err := auditkafka.NewConsumer(
		cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, cfg.Kafka.ConsumerGroup, store,
		auditkafka.WithConsumerLogger(log),
	)
	if err != nil {
		log.Error("join consumer group", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	log.Info("audit worker started",
		"topic", cfg.Kafka.AuditTopic,
		"group", cfg.Kafka.ConsumerGroup,
		"interval", cfg.Kafka.RelayInterval,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return relay.Run(gctx) })
	g.Go(func() error { return consumer.Run(gctx) })

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("audit worker stopped", "error", err)
		os.Exit(1)
	}
	log.Info("audit worker stopped")
}
