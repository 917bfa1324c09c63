package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventRequestReceived   EventType = "request_received"
	EventResponseCompleted EventType = "response_completed"
	EventRequestFailed     EventType = "request_failed"
	EventWriteFailed       EventType = "write_failed"
	EventHealthChanged     EventType = "health_changed"
)

type MetricEvent struct {
	Type      EventType
	Timestamp time.Time
	SortKey   string
	Stage     string
	Duration  time.Duration
	Trips     int
	Healthy   bool
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Emit queues event without blocking. A nil collector discards it.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests(event.SortKey)

	case EventResponseCompleted:
		c.metrics.RecordResponse(event.SortKey, event.Duration, event.Trips)

	case EventRequestFailed:
		c.metrics.RecordFailure(event.Stage)

	case EventWriteFailed:
		c.metrics.RecordWriteFailure()

	case EventHealthChanged:
		c.metrics.UpdateHealthStatus(event.Healthy)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}
