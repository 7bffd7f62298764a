package negotiation

type ignoreClientNegotiator struct{}

// NewIgnoreClient returns a negotiator that disregards Accept and
// Content-Type and always picks the first candidate. A format suffix still
// narrows the renderers.
func NewIgnoreClient() Negotiator {
	return ignoreClientNegotiator{}
}

func (ignoreClientNegotiator) SelectParser(_ Request, parsers []Parser) (Parser, bool) {
	if len(parsers) == 0 {
		return nil, false
	}
	return parsers[0], true
}

func (ignoreClientNegotiator) SelectRenderer(_ Request, renderers []Renderer, formatSuffix string) (Renderer, string, error) {
	if formatSuffix != "" {
		var err error
		if renderers, err = filterByFormat(renderers, formatSuffix); err != nil {
			return nil, "", err
		}
	}

	if len(renderers) == 0 {
		return nil, "", &NotAcceptableError{}
	}

	return renderers[0], renderers[0].MediaType(), nil
}
