// Package worker provides asynchronous audit emission. An AsyncPublisher
// buffers events on a channel and a Worker drains them into a store, keeping
// audit writes off the request path for callers that tolerate async audit.
package worker

import (
	"context"
	"errors"
	"time"

	audit "trafficwatch/pkg/platform/audit"
)

// ErrInboxFull is returned when the buffer is saturated and the caller's
// context does not allow waiting.
var ErrInboxFull = errors.New("audit inbox full")

// AsyncPublisher satisfies the same Emit contract as audit.Publisher but
// hands events to a Worker instead of writing the store directly.
type AsyncPublisher struct {
	inbox chan audit.Event
}

// NewAsyncPublisher returns a publisher and the inbox a Worker should drain.
func NewAsyncPublisher(buffer int) (*AsyncPublisher, <-chan audit.Event) {
	if buffer <= 0 {
		buffer = 256
	}
	inbox := make(chan audit.Event, buffer)
	return &AsyncPublisher{inbox: inbox}, inbox
}

// Emit normalizes and enqueues the event. It fails fast with ErrInboxFull
// rather than blocking the caller when the worker falls behind.
func (p *AsyncPublisher) Emit(ctx context.Context, base audit.Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.Category == "" {
		base.Category = audit.AuditEvent(base.Action).Category()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.inbox <- base:
		return nil
	default:
		return ErrInboxFull
	}
}

// Worker consumes audit events from a channel and persists them.
type Worker struct {
	store audit.Store
	inbox <-chan audit.Event
}

func NewWorker(store audit.Store, inbox <-chan audit.Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

// Run drains the inbox until the context is cancelled or an append fails.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
