package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sink decouples notification recording from the mutation that triggered
// it. Events are queued and processed by background workers with bounded
// retry; a full queue or exhausted retries drop the event with a log
// line, never failing or blocking the caller.
type Sink struct {
	agg        *Aggregator
	queue      chan Event
	log        *logrus.Logger
	maxRetries int
	backoff    time.Duration
	done       chan struct{}
}

// SinkOptions tune the sink. Zero values fall back to defaults.
type SinkOptions struct {
	Workers    int
	QueueSize  int
	MaxRetries int
	Backoff    time.Duration
}

// NewSink starts the worker goroutines and returns the sink.
func NewSink(agg *Aggregator, log *logrus.Logger, opts SinkOptions) *Sink {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 100 * time.Millisecond
	}

	s := &Sink{
		agg:        agg,
		queue:      make(chan Event, opts.QueueSize),
		log:        log,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		done:       make(chan struct{}),
	}
	for i := 0; i < opts.Workers; i++ {
		go s.worker()
	}
	return s
}

// Record enqueues the event without blocking. Delivery is at-least-once
// and best-effort: if the queue is full the event is dropped and logged.
func (s *Sink) Record(ev Event) {
	select {
	case s.queue <- ev:
	default:
		s.log.WithFields(logrus.Fields{
			"event_id": ev.ID,
			"type":     ev.Type,
			"object":   ev.ObjectID,
		}).Warn("notification queue full, event dropped")
	}
}

// Close stops the workers. Events still queued are abandoned.
func (s *Sink) Close() {
	close(s.done)
}

func (s *Sink) worker() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.queue:
			s.process(ev)
		}
	}
}

func (s *Sink) process(ev Event) {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.backoff << (attempt - 1))
		}
		_, err = s.agg.Record(context.Background(), ev)
		if err == nil {
			return
		}
	}
	s.log.WithError(err).WithFields(logrus.Fields{
		"event_id":  ev.ID,
		"type":      ev.Type,
		"object":    ev.ObjectID,
		"recipient": ev.ReceiverID,
	}).Error("notification event dropped after retries")
}
