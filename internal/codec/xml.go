package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"unicode"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

const (
	xmlRoot     = "root"
	xmlListItem = "list-item"
	xmlItem     = "item"
	xmlKeyAttr  = "key"
)

type xmlCodec struct{}

// XML renders application/xml. Maps become nested elements with sorted
// names and slices become repeated <list-item> elements under <root>. Keys
// that are not XML names are written as <item key="...">.
func XML() Renderer { return xmlCodec{} }

func (xmlCodec) MediaType() string { return "application/xml" }
func (xmlCodec) Format() string    { return "xml" }

func (xmlCodec) Render(w io.Writer, v any, _ mediatype.MediaType) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	if err := encodeXML(enc, xml.StartElement{Name: xml.Name{Local: xmlRoot}}, v); err != nil {
		return err
	}
	return enc.Flush()
}

func encodeXMLField(enc *xml.Encoder, key string, v any) error {
	if isXMLName(key) {
		return encodeXML(enc, xml.StartElement{Name: xml.Name{Local: key}}, v)
	}
	return encodeXML(enc, xml.StartElement{
		Name: xml.Name{Local: xmlItem},
		Attr: []xml.Attr{{Name: xml.Name{Local: xmlKeyAttr}, Value: key}},
	}, v)
}

func encodeXML(enc *xml.Encoder, start xml.StartElement, v any) error {
	switch val := v.(type) {
	case map[string]any:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := encodeXMLField(enc, k, val[k]); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())

	case []any:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, item := range val {
			if err := encodeXML(enc, xml.StartElement{Name: xml.Name{Local: xmlListItem}}, item); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())

	case nil:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())

	case string, bool, int, int64, uint64, float64:
		return enc.EncodeElement(fmt.Sprint(val), start)

	default:
		return enc.EncodeElement(val, start)
	}
}

// isXMLName reports whether s is an XML Name without a namespace prefix.
func isXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
