package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/content-negotiation/config"
	"github.com/angeloszaimis/content-negotiation/internal/codec"
	"github.com/angeloszaimis/content-negotiation/internal/handler"
	"github.com/angeloszaimis/content-negotiation/internal/httpserver"
	"github.com/angeloszaimis/content-negotiation/internal/metrics"
	"github.com/angeloszaimis/content-negotiation/internal/negotiation"
	"github.com/angeloszaimis/content-negotiation/pkg/logger"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		slog.Error("failed to parse flags", slog.Any("err", err))
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	lc := cfg.Logging
	log := logger.New(lc.Level, lc.AddSource, cfg.Server.Environment,
		logger.Output(lc.File, lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry, err := codec.NewRegistry(cfg.Renderers, cfg.Parsers)
	if err != nil {
		log.Error("Failed to build codecs", slog.Any("err", err))
		os.Exit(1)
	}

	negotiator := createNegotiator(log, cfg.Negotiation)

	prom := metrics.NewPrometheus()
	metricsCollector := metrics.NewCollector(cfg.Metrics.BufferSize, log).WithPrometheus(prom)
	metricsCollector.Start(ctx)

	negotiationHandler := handler.NewNegotiationHandler(log, negotiator, registry,
		cfg.Negotiation.NegotiatorConfig(), metricsCollector)

	read, write, idle := cfg.Server.Timeouts()
	srv, err := httpserver.New(cfg.Server.Address,
		setupRouter(negotiationHandler, metricsCollector, prom, cfg.Negotiation.Strategy),
		httpserver.Timeouts{Read: read, Write: write, Idle: idle})
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Starting negotiator",
		slog.String("addr", srv.Addr()),
		slog.String("strategy", cfg.Negotiation.Strategy),
		slog.Any("renderers", cfg.Renderers),
		slog.Any("parsers", cfg.Parsers))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting negotiator", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func createNegotiator(logger *slog.Logger, nc config.NegotiationConfig) negotiation.Negotiator {
	n, err := negotiation.New(nc.Strategy, nc.NegotiatorConfig())
	if err != nil {
		logger.Warn("Unknown strategy, defaulting to default", slog.String("requested", nc.Strategy))
		return negotiation.NewDefault(nc.NegotiatorConfig())
	}
	return n
}
