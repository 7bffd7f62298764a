package main

import (
	"net/http"

	"github.com/angeloszaimis/content-negotiation/internal/handler"
	"github.com/angeloszaimis/content-negotiation/internal/metrics"
)

func setupRouter(negotiationHandler *handler.NegotiationHandler, metricsCollector *metrics.Collector, prom *metrics.Prometheus, strategy string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/", negotiationHandler)
	mux.HandleFunc("/stats", metricsCollector.Handler(strategy))
	mux.Handle("/metrics", prom.Handler())
	mux.HandleFunc("/health", health)

	return mux
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
