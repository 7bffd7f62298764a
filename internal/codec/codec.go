package codec

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
	"github.com/angeloszaimis/content-negotiation/internal/negotiation"
)

// Renderer encodes a value into the representation it declares. mt is the
// negotiated media type, whose parameters may tune the output.
type Renderer interface {
	negotiation.Renderer
	Render(w io.Writer, v any, mt mediatype.MediaType) error
}

// Parser decodes a request body into generic values: maps, slices and
// scalars.
type Parser interface {
	negotiation.Parser
	Format() string
	Parse(r io.Reader) (any, error)
}

type factory func() (any, error)

var builtin = map[string]factory{
	"json":     func() (any, error) { return JSON(), nil },
	"xml":      func() (any, error) { return XML(), nil },
	"yaml":     func() (any, error) { return YAML(), nil },
	"toml":     func() (any, error) { return TOML(), nil },
	"cbor":     func() (any, error) { return CBOR() },
	"protobuf": func() (any, error) { return Protobuf(), nil },
	"html":     func() (any, error) { return HTML("Negotiated resource") },
	"text":     func() (any, error) { return Text(), nil },
	"form":     func() (any, error) { return Form(), nil },
}

// Formats lists the built-in format names.
func Formats() []string {
	return []string{"json", "xml", "yaml", "toml", "cbor", "protobuf", "html", "text", "form"}
}

// Registry holds renderers and parsers in priority order.
type Registry struct {
	renderers []Renderer
	parsers   []Parser
}

// NewRegistry builds a registry from built-in format names. Order is
// priority: the first renderer wins when the client has no preference.
// Every bad format is reported, not just the first.
func NewRegistry(renderFormats, parseFormats []string) (*Registry, error) {
	reg := &Registry{}
	var errs *multierror.Error

	for _, format := range renderFormats {
		c, err := build(format)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		r, ok := c.(Renderer)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("codec %q cannot render", format))
			continue
		}
		reg.renderers = append(reg.renderers, r)
	}

	for _, format := range parseFormats {
		c, err := build(format)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		p, ok := c.(Parser)
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("codec %q cannot parse", format))
			continue
		}
		reg.parsers = append(reg.parsers, p)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return reg, nil
}

func build(format string) (any, error) {
	f, ok := builtin[format]
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", format)
	}
	return f()
}

// Renderers returns the renderers as negotiation candidates.
func (r *Registry) Renderers() []negotiation.Renderer {
	out := make([]negotiation.Renderer, 0, len(r.renderers))
	for _, rr := range r.renderers {
		out = append(out, rr)
	}
	return out
}

// Parsers returns the parsers as negotiation candidates.
func (r *Registry) Parsers() []negotiation.Parser {
	out := make([]negotiation.Parser, 0, len(r.parsers))
	for _, p := range r.parsers {
		out = append(out, p)
	}
	return out
}
