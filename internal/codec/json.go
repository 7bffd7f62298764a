package codec

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

const maxIndent = 8

type jsonCodec struct{}

// JSON renders and parses application/json. The indent=N media-type
// parameter pretty-prints the output.
func JSON() Renderer { return jsonCodec{} }

func (jsonCodec) MediaType() string { return "application/json" }
func (jsonCodec) Format() string    { return "json" }

func (jsonCodec) Render(w io.Writer, v any, mt mediatype.MediaType) error {
	enc := json.NewEncoder(w)
	if indent := indentOf(mt); indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	return enc.Encode(v)
}

func (jsonCodec) Parse(r io.Reader) (any, error) {
	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// indentOf reads the indent parameter, ignoring values that are not small
// non-negative integers.
func indentOf(mt mediatype.MediaType) int {
	raw, ok := mt.Param("indent")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return min(n, maxIndent)
}
