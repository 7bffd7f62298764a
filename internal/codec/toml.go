package codec

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

type tomlCodec struct{}

// TOML renders and parses application/toml. Only tables can be encoded at
// the top level.
func TOML() Renderer { return tomlCodec{} }

func (tomlCodec) MediaType() string { return "application/toml" }
func (tomlCodec) Format() string    { return "toml" }

func (tomlCodec) Render(w io.Writer, v any, _ mediatype.MediaType) error {
	return toml.NewEncoder(w).Encode(v)
}

func (tomlCodec) Parse(r io.Reader) (any, error) {
	v := map[string]any{}
	if _, err := toml.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return generic(v), nil
}
