// Package kafka publishes outbox entries to the audit topic.
//
// The outbox relay polls the outbox table and produces each entry to Kafka,
// marking it published on success. Publishing is at-least-once; the consumer
// materializes events idempotently.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer wraps a franz-go client pinned to the audit topic.
type Producer struct {
	client *kgo.Client
	topic  string
}

// NewProducer connects to the brokers and ensures the audit topic exists.
func NewProducer(ctx context.Context, brokers []string, topic string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	topics, err := admin.ListTopics(ctx, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("list kafka topics: %w", err)
	}
	if !topics.Has(topic) {
		if _, err := admin.CreateTopic(ctx, 3, 1, nil, topic); err != nil {
			client.Close()
			return nil, fmt.Errorf("create audit topic: %w", err)
		}
	}

	return &Producer{client: client, topic: topic}, nil
}

// Publish produces one record keyed by aggregate id so events for the same
// actor stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, key string, payload []byte) error {
	record := &kgo.Record{Key: []byte(key), Value: payload}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (p *Producer) Close() {
	p.client.Close()
}

// OutboxSource reads pending outbox entries and marks them published.
type OutboxSource interface {
	Pending(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []string) error
}

// OutboxEntry is one row awaiting publication.
type OutboxEntry struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     []byte
}

// RecordPublisher produces one keyed record.
type RecordPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Relay drains the outbox into Kafka on a fixed interval.
type Relay struct {
	source   OutboxSource
	producer RecordPublisher
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

// RelayOption configures a Relay.
type RelayOption func(*Relay)

// WithInterval overrides the poll interval.
func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLogger sets a logger for relay failures.
func WithLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
	}
}

// NewRelay constructs an outbox relay.
func NewRelay(source OutboxSource, producer RecordPublisher, opts ...RelayOption) *Relay {
	r := &Relay{
		source:   source,
		producer: producer,
		interval: time.Second,
		batch:    100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until the context is canceled. A failed batch is retried on the
// next tick; entries are only marked published after the produce succeeds.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drain(ctx); err != nil && r.logger != nil {
				r.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

func (r *Relay) drain(ctx context.Context) error {
	entries, err := r.source.Pending(ctx, r.batch)
	if err != nil {
		return fmt.Errorf("load pending outbox entries: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	published := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := r.producer.Publish(ctx, entry.AggregateID, entry.Payload); err != nil {
			// Stop at the first failure so per-aggregate ordering holds.
			break
		}
		published = append(published, entry.ID)
	}
	if len(published) == 0 {
		return fmt.Errorf("no outbox entries published")
	}
	return r.source.MarkPublished(ctx, published)
}
