package negotiation

import (
	"fmt"
	"net/http"
	"net/url"
)

// Parser is a request body decoder identified by the media type it accepts.
type Parser interface {
	MediaType() string
}

// Renderer is a response encoder identified by the media type it produces and
// a short format name such as "json".
type Renderer interface {
	MediaType() string
	Format() string
}

// Request carries the parts of an HTTP request that negotiation reads.
type Request struct {
	Accept      string
	ContentType string
	Query       url.Values
}

// FromHTTPRequest extracts the negotiation inputs from r.
func FromHTTPRequest(r *http.Request) Request {
	return Request{
		Accept:      r.Header.Get("Accept"),
		ContentType: r.Header.Get("Content-Type"),
		Query:       r.URL.Query(),
	}
}

// Negotiator selects the parser for a request body and the renderer for the
// response. Implementations are stateless and safe for concurrent use.
type Negotiator interface {
	SelectParser(req Request, parsers []Parser) (Parser, bool)
	SelectRenderer(req Request, renderers []Renderer, formatSuffix string) (Renderer, string, error)
}

const (
	StrategyDefault      = "default"
	StrategyIgnoreClient = "ignore-client"
)

// New returns the negotiator registered under name.
func New(name string, cfg Config) (Negotiator, error) {
	switch name {
	case StrategyDefault, "":
		return NewDefault(cfg), nil
	case StrategyIgnoreClient:
		return NewIgnoreClient(), nil
	default:
		return nil, fmt.Errorf("unknown negotiation strategy %q", name)
	}
}

// filterByFormat keeps the renderers declaring format.
func filterByFormat(renderers []Renderer, format string) ([]Renderer, error) {
	filtered := make([]Renderer, 0, len(renderers))
	for _, r := range renderers {
		if r.Format() == format {
			filtered = append(filtered, r)
		}
	}

	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRendererForFormat, format)
	}

	return filtered, nil
}
