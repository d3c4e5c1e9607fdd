// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Event kinds
const (
	KindFirstVote = "first_vote"
	KindFollow    = "follow"
)

// Event is one fan-out request. Recipients is the already-resolved target
// set (question author plus the voter's followers for a first vote).
type Event struct {
	Kind       string   `json:"kind"`
	QuestionID string   `json:"question_id,omitempty"`
	ActorID    string   `json:"actor_id"`
	Recipients []string `json:"recipients"`
}

// Sink delivers an event to the external notification service.
type Sink interface {
	Deliver(ctx context.Context, ev Event) error
}

// LogSink is the default sink: it records the event and does nothing else.
// The real delivery transport lives outside this core.
type LogSink struct{}

func (LogSink) Deliver(_ context.Context, ev Event) error {
	slog.Info("notification dispatched",
		"kind", ev.Kind,
		"question_id", ev.QuestionID,
		"actor_id", ev.ActorID,
		"recipients", len(ev.Recipients),
	)
	return nil
}

// Dispatcher decouples vote durability from notification delivery: events
// are enqueued after the vote commits and drained by background workers.
// Enqueue never blocks and delivery failures never propagate to the voter.
type Dispatcher struct {
	sink   Sink
	queue  chan Event
	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewDispatcher starts workers goroutines draining a queue of queueSize.
func NewDispatcher(sink Sink, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	d := &Dispatcher{
		sink:   sink,
		queue:  make(chan Event, queueSize),
		group:  g,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for ev := range d.queue {
				if err := d.sink.Deliver(ctx, ev); err != nil {
					// Best-effort by contract: the vote already committed.
					slog.Warn("notification delivery failed",
						"kind", ev.Kind,
						"question_id", ev.QuestionID,
						"error", err,
					)
				}
			}
			return nil
		})
	}

	return d
}

// Enqueue hands an event to the workers. Events with no recipients are
// skipped; when the queue is full the event is dropped with a warning
// rather than blocking the vote path.
func (d *Dispatcher) Enqueue(ev Event) {
	if len(ev.Recipients) == 0 {
		return
	}
	select {
	case d.queue <- ev:
	default:
		slog.Warn("notification queue full, dropping event",
			"kind", ev.Kind,
			"question_id", ev.QuestionID,
		)
	}
}

// Close stops accepting events and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.group.Wait()
	d.cancel()
}
