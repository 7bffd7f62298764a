package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/unrolled/render"

	"github.com/angeloszaimis/content-negotiation/internal/codec"
	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
	"github.com/angeloszaimis/content-negotiation/internal/metrics"
	"github.com/angeloszaimis/content-negotiation/internal/negotiation"
)

const (
	RouteNegotiate = "/negotiate"
	RouteEcho      = "/echo"
)

const maxBodyBytes = 1 << 20

type NegotiationHandler struct {
	logger           *slog.Logger
	negotiator       negotiation.Negotiator
	registry         *codec.Registry
	cfg              negotiation.Config
	metricsCollector *metrics.Collector
	errorRender      *render.Render
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (h *NegotiationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	clientIP := extractClientIP(r)

	h.logger.Info("Received request",
		slog.String("from", clientIP),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("accept", r.Header.Get("Accept")))

	w.Header().Add("Vary", "Accept")
	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

	route, suffix := splitFormatSuffix(r.URL.Path)

	var format string
	switch route {
	case RouteNegotiate:
		if !allowMethod(wrapped, r, http.MethodGet) {
			break
		}
		format = h.negotiate(wrapped, r, suffix)
	case RouteEcho:
		if !allowMethod(wrapped, r, http.MethodPost) {
			break
		}
		format = h.echo(wrapped, r, suffix)
	default:
		h.writeError(wrapped, http.StatusNotFound, "Not found.", nil)
	}

	h.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventResponseCompleted,
		Timestamp:  time.Now(),
		Format:     format,
		Duration:   time.Since(start),
		StatusCode: wrapped.statusCode,
	})
}

func (h *NegotiationHandler) negotiate(w http.ResponseWriter, r *http.Request, suffix string) string {
	req := negotiation.FromHTTPRequest(r)
	renderers := h.registry.Renderers()

	renderer, mediaType, ok := h.selectRenderer(w, req, renderers, suffix)
	if !ok {
		return ""
	}

	// The accept list is informational; ignore-client never parses it.
	accept := []any{}
	if accepted, err := negotiation.AcceptList(req, h.cfg); err == nil {
		for _, mt := range accepted {
			accept = append(accept, mt.String())
		}
	}

	h.respond(w, renderer, mediaType, map[string]any{
		"format":     renderer.Format(),
		"media_type": mediaType,
		"accept":     accept,
		"available":  toAnySlice(negotiation.AvailableMediaTypes(renderers)),
	})
	return renderer.Format()
}

func (h *NegotiationHandler) echo(w http.ResponseWriter, r *http.Request, suffix string) string {
	req := negotiation.FromHTTPRequest(r)

	selected, ok := h.negotiator.SelectParser(req, h.registry.Parsers())
	if !ok {
		h.emitEvent(metrics.MetricEvent{Type: metrics.EventUnsupportedMediaType, Timestamp: time.Now()})
		h.writeError(w, http.StatusUnsupportedMediaType,
			"Unsupported media type \""+req.ContentType+"\" in request.", nil)
		return ""
	}

	parser := selected.(codec.Parser)
	data, err := parser.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("Malformed request body",
			slog.String("parser", parser.Format()),
			slog.String("error", err.Error()))
		h.writeError(w, http.StatusBadRequest, "Malformed request: "+err.Error(), nil)
		return ""
	}

	renderer, mediaType, ok := h.selectRenderer(w, req, h.registry.Renderers(), suffix)
	if !ok {
		return ""
	}

	h.respond(w, renderer, mediaType, data)
	return renderer.Format()
}

// selectRenderer runs renderer negotiation and writes the error response
// when it fails.
func (h *NegotiationHandler) selectRenderer(w http.ResponseWriter, req negotiation.Request, renderers []negotiation.Renderer, suffix string) (codec.Renderer, string, bool) {
	selected, mediaType, err := h.negotiator.SelectRenderer(req, renderers, suffix)
	if err != nil {
		h.handleNegotiationError(w, err)
		return nil, "", false
	}

	h.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventNegotiated,
		Timestamp: time.Now(),
		Format:    selected.Format(),
		MediaType: selected.MediaType(),
	})

	h.logger.Debug("Selected renderer",
		slog.String("format", selected.Format()),
		slog.String("media_type", mediaType))

	return selected.(codec.Renderer), mediaType, true
}

func (h *NegotiationHandler) handleNegotiationError(w http.ResponseWriter, err error) {
	var notAcceptable *negotiation.NotAcceptableError

	switch {
	case errors.As(err, &notAcceptable):
		h.emitEvent(metrics.MetricEvent{Type: metrics.EventNotAcceptable, Timestamp: time.Now()})
		h.writeError(w, http.StatusNotAcceptable, "Could not satisfy the request Accept header.",
			negotiation.AvailableMediaTypes(notAcceptable.Available))

	case errors.Is(err, negotiation.ErrNoRendererForFormat):
		h.emitEvent(metrics.MetricEvent{Type: metrics.EventFormatNotFound, Timestamp: time.Now()})
		h.writeError(w, http.StatusNotFound, "Not found.", nil)

	case errors.Is(err, negotiation.ErrInvalidQualityValue):
		h.emitEvent(metrics.MetricEvent{Type: metrics.EventInvalidAccept, Timestamp: time.Now()})
		h.writeError(w, http.StatusBadRequest, "Malformed Accept header: "+err.Error(), nil)

	default:
		h.logger.Error("Negotiation failed", slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "Internal server error.", nil)
	}
}

func (h *NegotiationHandler) respond(w http.ResponseWriter, renderer codec.Renderer, mediaType string, data any) {
	mt, _ := mediatype.Parse(mediaType)

	var buf bytes.Buffer
	if err := renderer.Render(&buf, data, mt); err != nil {
		h.logger.Error("Render failed",
			slog.String("format", renderer.Format()),
			slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "Internal server error.", nil)
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *NegotiationHandler) writeError(w http.ResponseWriter, status int, detail string, available []string) {
	body := map[string]any{"detail": detail}
	if available != nil {
		body["available"] = available
	}

	if err := h.errorRender.JSON(w, status, body); err != nil {
		h.logger.Error("Failed to write error response", slog.String("error", err.Error()))
	}
}

func (h *NegotiationHandler) emitEvent(event metrics.MetricEvent) {
	if h.metricsCollector == nil {
		return
	}
	h.metricsCollector.Emit(event)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

// splitFormatSuffix splits "/negotiate.json" into "/negotiate" and "json".
// Only the last path segment is inspected.
func splitFormatSuffix(p string) (string, string) {
	dir, file := path.Split(p)
	base, suffix, ok := strings.Cut(file, ".")
	if !ok || base == "" {
		return p, ""
	}
	return dir + base, suffix
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func NewNegotiationHandler(logger *slog.Logger, negotiator negotiation.Negotiator, registry *codec.Registry, cfg negotiation.Config, collector *metrics.Collector) *NegotiationHandler {
	return &NegotiationHandler{
		logger:           logger,
		negotiator:       negotiator,
		registry:         registry,
		cfg:              cfg,
		metricsCollector: collector,
		errorRender:      render.New(render.Options{Directory: "nowhere"}),
	}
}
