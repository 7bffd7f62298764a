// Package metrics collects content negotiation metrics.
//
// Handlers emit MetricEvents into a buffered channel; a single collector
// goroutine folds them into per-format counters, status codes and response
// time percentiles (P50, P95, P99). Failed negotiations are counted by
// reason. When a Prometheus instance is attached, the same events update
// its counters and histograms.
//
// Example usage:
//
//	prom := metrics.NewPrometheus()
//	collector := metrics.NewCollector(1000, logger).WithPrometheus(prom)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:      metrics.EventNegotiated,
//		Format:    "json",
//		MediaType: "application/json",
//	})
//
//	snapshot := collector.Snapshot("default")
package metrics
