package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventNegotiated           EventType = "negotiated"
	EventNotAcceptable        EventType = "not_acceptable"
	EventFormatNotFound       EventType = "format_not_found"
	EventInvalidAccept        EventType = "invalid_accept"
	EventUnsupportedMediaType EventType = "unsupported_media_type"
	EventResponseCompleted    EventType = "response_completed"
)

// MetricEvent describes one step of a negotiated request. Format is the
// renderer's short name; it is empty for failures that never reached a
// renderer.
type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Format     string
	MediaType  string
	Duration   time.Duration
	StatusCode int
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	prom    *Prometheus
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// WithPrometheus mirrors every processed event into p.
func (c *Collector) WithPrometheus(p *Prometheus) *Collector {
	c.prom = p
	return c
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Emit queues event without blocking. Events are dropped when the buffer is full.
func (c *Collector) Emit(event MetricEvent) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Debug("metrics buffer full, dropping event", slog.String("type", string(event.Type)))
	}
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
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventNegotiated, EventResponseCompleted,
		EventNotAcceptable, EventFormatNotFound, EventInvalidAccept, EventUnsupportedMediaType:
	default:
		c.logger.Warn("unknown metric event", slog.String("type", string(event.Type)))
		return
	}

	// Prometheus first, so a snapshot never runs ahead of the exporter.
	if c.prom != nil {
		c.prom.observe(event)
	}

	switch event.Type {
	case EventNegotiated:
		c.metrics.RecordSelection(event.Format)

	case EventResponseCompleted:
		c.metrics.RecordResponse(event.Format, event.Duration, event.StatusCode)

	default:
		c.metrics.RecordFailure(event.Type)
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

func (c *Collector) Snapshot(strategy string) Snapshot {
	return c.metrics.Snapshot(strategy)
}
