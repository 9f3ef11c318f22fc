package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	id "trafficwatch/pkg/domain"
	audit "trafficwatch/pkg/platform/audit"
)

// EventPayload is the JSON wire format carried on the audit topic.
type EventPayload struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
	Subject   string `json:"subject"`
	Action    string `json:"action"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Materializer persists consumed events for querying. Writes must be
// idempotent per event id; delivery is at-least-once.
type Materializer interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error
}

// Consumer reads the audit topic and materializes events into the query store.
type Consumer struct {
	client *kgo.Client
	sink   Materializer
	logger *slog.Logger
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithConsumerLogger sets a logger for skipped or failed records.
func WithConsumerLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// NewConsumer joins the given consumer group on the audit topic.
func NewConsumer(brokers []string, topic, group string, sink Materializer, opts ...ConsumerOption) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	c := &Consumer{client: client, sink: sink}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run polls until the context is canceled. Malformed records are logged and
// skipped so one bad message cannot wedge the partition; store failures are
// retried on redelivery.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				c.log(ctx, "audit fetch failed", "topic", fe.Topic, "error", fe.Err)
			}
		}
		fetches.EachRecord(func(record *kgo.Record) {
			if err := c.materialize(ctx, record.Value); err != nil {
				c.log(ctx, "audit record skipped", "error", err)
			}
		})
	}
}

func (c *Consumer) materialize(ctx context.Context, value []byte) error {
	var payload EventPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		return fmt.Errorf("unmarshal audit payload: %w", err)
	}
	eventID, err := uuid.Parse(payload.ID)
	if err != nil {
		return fmt.Errorf("parse audit event id %q: %w", payload.ID, err)
	}

	event := audit.Event{
		Category:  audit.EventCategory(payload.Category),
		Subject:   payload.Subject,
		Action:    payload.Action,
		Decision:  payload.Decision,
		Reason:    payload.Reason,
		RequestID: payload.RequestID,
	}
	if ts, err := time.Parse(time.RFC3339Nano, payload.Timestamp); err == nil {
		event.Timestamp = ts
	} else {
		event.Timestamp = time.Now()
	}
	if payload.ActorID != "" {
		if actor, err := uuid.Parse(payload.ActorID); err == nil {
			event.ActorID = id.UserID(actor)
		}
	}

	return c.sink.AppendWithID(ctx, eventID, event)
}

func (c *Consumer) log(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.ErrorContext(ctx, msg, args...)
	}
}

func (c *Consumer) Close() {
	c.client.Close()
}
