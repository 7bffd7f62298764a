package negotiation

import (
	"fmt"
	"sort"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

type defaultNegotiator struct {
	cfg Config
}

// NewDefault returns the RFC 2616 §14.1 negotiator.
func NewDefault(cfg Config) Negotiator {
	return &defaultNegotiator{cfg: cfg}
}

// SelectParser returns the first parser whose media type accepts the
// request's Content-Type.
func (n *defaultNegotiator) SelectParser(req Request, parsers []Parser) (Parser, bool) {
	contentType, _ := mediatype.Parse(req.ContentType)

	for _, p := range parsers {
		declared, _ := mediatype.Parse(p.MediaType())
		if declared.Match(contentType) {
			return p, true
		}
	}

	return nil, false
}

type candidate struct {
	accepted mediatype.MediaType
	renderer Renderer
	declared mediatype.MediaType
}

// SelectRenderer picks the renderer that best satisfies the Accept list and
// the media type to answer with. When the client was at least as specific as
// the renderer, the client's own expression is returned verbatim so that
// parameters such as indent=8 reach the renderer.
func (n *defaultNegotiator) SelectRenderer(req Request, renderers []Renderer, formatSuffix string) (Renderer, string, error) {
	format := formatSuffix
	if format == "" && n.cfg.FormatParam != "" {
		format = req.Query.Get(n.cfg.FormatParam)
	}

	if format != "" {
		var err error
		if renderers, err = filterByFormat(renderers, format); err != nil {
			return nil, "", err
		}
	}

	accepts, err := AcceptList(req, n.cfg)
	if err != nil {
		return nil, "", err
	}

	var candidates []candidate
	for _, r := range renderers {
		declared, _ := mediatype.Parse(r.MediaType())
		for _, accepted := range accepts {
			if declared.Match(accepted) {
				candidates = append(candidates, candidate{accepted: accepted, renderer: r, declared: declared})
				break
			}
		}
	}

	if len(candidates) == 0 {
		return nil, "", &NotAcceptableError{Available: renderers}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].accepted.Precedence().Compare(candidates[j].accepted.Precedence()) > 0
	})

	best := candidates[0]
	if best.declared.Precedence().Compare(best.accepted.Precedence()) > 0 {
		return best.renderer, best.renderer.MediaType(), nil
	}

	return best.renderer, best.accepted.Original(), nil
}

// AcceptList returns the client's accepted media types sorted by precedence.
// The accept query override, when present, replaces the header entirely.
func AcceptList(req Request, cfg Config) ([]mediatype.MediaType, error) {
	header := req.Accept
	if header == "" {
		header = cfg.DefaultAccept
	}
	if cfg.AcceptParam != "" && req.Query.Has(cfg.AcceptParam) {
		header = req.Query.Get(cfg.AcceptParam)
	}

	accepts, err := mediatype.ParseList(header)
	if err != nil && cfg.QualityPolicy != QualityClamp {
		return nil, fmt.Errorf("accept %q: %w", header, err)
	}

	mediatype.SortByPrecedence(accepts)
	return accepts, nil
}
