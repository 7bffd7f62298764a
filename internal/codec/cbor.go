package codec

import (
	"io"
	"reflect"

	cbor "github.com/fxamacker/cbor/v2"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// CBOR renders and parses application/cbor using canonical encoding.
// Decoded maps have string keys.
func CBOR() (Renderer, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}.DecMode()
	if err != nil {
		return nil, err
	}
	return cborCodec{enc: em, dec: dm}, nil
}

func (cborCodec) MediaType() string { return "application/cbor" }
func (cborCodec) Format() string    { return "cbor" }

func (c cborCodec) Render(w io.Writer, v any, _ mediatype.MediaType) error {
	return c.enc.NewEncoder(w).Encode(v)
}

func (c cborCodec) Parse(r io.Reader) (any, error) {
	var v any
	if err := c.dec.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return generic(v), nil
}
