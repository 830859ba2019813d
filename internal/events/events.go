package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event represents a notification payload. Subject is the interface id the
// event is about; ID identifies the delivery.
type Event struct {
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Time    time.Time `json:"time"`
	Data    any       `json:"data"`
	ID      string    `json:"id"`
}

// New returns an event with a fresh id and the current time.
func New(name, subject string, data any) Event {
	return Event{Name: name, Subject: subject, Time: time.Now().UTC(), Data: data, ID: uuid.NewString()}
}

// Sink publishes events.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// DLQ stores failed events.
type DLQ interface {
	Store(ctx context.Context, e Event, attempts int, lastErr string) error
}

// Dispatcher broadcasts events to multiple sinks with retries.
type Dispatcher struct {
	sinks        []Sink
	maxAttempts  int
	initialDelay time.Duration
	dlq          DLQ
}

// NewDispatcher creates a dispatcher from sinks and retry config.
func NewDispatcher(cfg Config, dlq DLQ, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{maxAttempts: 3, initialDelay: time.Second}
	if cfg.Retry.MaxAttempts > 0 {
		d.maxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.InitialDelay > 0 {
		d.initialDelay = cfg.Retry.InitialDelay
	}
	d.sinks = append(d.sinks, sinks...)
	d.dlq = dlq
	return d
}

// Len returns the number of configured sinks.
func (d *Dispatcher) Len() int { return len(d.sinks) }

// Dispatch sends the event to all sinks asynchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	for _, s := range d.sinks {
		sink := s
		go d.retrySend(ctx, sink, e)
	}
}

func (d *Dispatcher) retrySend(ctx context.Context, s Sink, e Event) {
	delay := d.initialDelay
	var err error
loop:
	for i := 1; i <= d.maxAttempts; i++ {
		if err = s.Emit(ctx, e); err == nil {
			return
		}
		if i == d.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		case <-time.After(delay):
			delay *= 2
		}
	}
	if d.dlq != nil {
		_ = d.dlq.Store(ctx, e, d.maxAttempts, err.Error())
	}
}

// LogDLQ records undeliverable events in the log.
type LogDLQ struct {
	Logger *slog.Logger
}

// Store logs the failed event.
func (q LogDLQ) Store(ctx context.Context, e Event, attempts int, lastErr string) error {
	if q.Logger == nil {
		return nil
	}
	q.Logger.Error("event delivery failed", "event", e.Name, "interface", e.Subject, "id", e.ID, "attempts", attempts, "err", lastErr)
	return nil
}
