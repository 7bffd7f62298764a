package codec

import (
	"fmt"
	"io"
	"net/url"
	"sort"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

type textCodec struct{}

// Text renders text/plain. Maps print one "key: value" line per sorted key.
func Text() Renderer { return textCodec{} }

func (textCodec) MediaType() string { return "text/plain" }
func (textCodec) Format() string    { return "text" }

func (textCodec) Render(w io.Writer, v any, _ mediatype.MediaType) error {
	m, ok := v.(map[string]any)
	if !ok {
		_, err := fmt.Fprintln(w, v)
		return err
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

type formCodec struct{}

// Form parses application/x-www-form-urlencoded bodies. Repeated keys
// become lists.
func Form() Parser { return formCodec{} }

func (formCodec) MediaType() string { return "application/x-www-form-urlencoded" }
func (formCodec) Format() string    { return "form" }

func (formCodec) Parse(r io.Reader) (any, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	values, err := url.ParseQuery(string(b))
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		list := make([]any, 0, len(vs))
		for _, v := range vs {
			list = append(list, v)
		}
		out[k] = list
	}
	return out, nil
}
