package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

const namespace = "negotiator"

// Prometheus holds the exported instruments on a private registry.
type Prometheus struct {
	registry   *prometheus.Registry
	selections *prometheus.CounterVec
	failures   *prometheus.CounterVec
	responses  *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Renderers selected by content negotiation.",
		}, []string{"format", "media_type"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Negotiations that did not produce a renderer or parser.",
		}, []string{"reason"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Completed responses by format and status code.",
		}, []string{"format", "code"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "response_duration_seconds",
			Help:      "Time spent serving negotiated requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
	}

	p.registry.MustRegister(
		p.selections,
		p.failures,
		p.responses,
		p.durations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) observe(event MetricEvent) {
	switch event.Type {
	case EventNegotiated:
		p.selections.WithLabelValues(event.Format, mediaTypeLabel(event.MediaType)).Inc()
	case EventResponseCompleted:
		p.responses.WithLabelValues(event.Format, strconv.Itoa(event.StatusCode)).Inc()
		p.durations.WithLabelValues(event.Format).Observe(event.Duration.Seconds())
	default:
		p.failures.WithLabelValues(string(event.Type)).Inc()
	}
}

// mediaTypeLabel drops parameters so client-supplied values cannot grow the
// label set.
func mediaTypeLabel(raw string) string {
	if raw == "" {
		return ""
	}
	mt, _ := mediatype.Parse(raw)
	return mt.FullType()
}
