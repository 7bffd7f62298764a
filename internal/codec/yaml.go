package codec

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

type yamlCodec struct{}

// YAML renders and parses application/yaml.
func YAML() Renderer { return yamlCodec{} }

func (yamlCodec) MediaType() string { return "application/yaml" }
func (yamlCodec) Format() string    { return "yaml" }

func (yamlCodec) Render(w io.Writer, v any, mt mediatype.MediaType) error {
	enc := yaml.NewEncoder(w)
	if indent := indentOf(mt); indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) Parse(r io.Reader) (any, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return generic(v), nil
}
