package mediatype

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const Wildcard = "*"

// ErrInvalidQuality is returned by Parse when the q parameter is not a number.
var ErrInvalidQuality = errors.New("invalid quality value")

// Param is a single media-type parameter. Names are lower-cased.
type Param struct {
	Name  string
	Value string
}

// MediaType is a parsed media-type expression such as
// "application/json; indent=4; q=0.9". Values are immutable.
type MediaType struct {
	mainType        string
	subType         string
	params          []Param
	quality         float64
	qualityExplicit bool
	original        string
}

// Parse parses s best-effort. It never rejects structurally odd input:
// an empty string is */*, a missing slash gives an empty subtype and
// parameter fragments without "=" are dropped.
//
// When q is not a number the returned MediaType is still usable (quality 1.0)
// and err wraps ErrInvalidQuality.
func Parse(s string) (MediaType, error) {
	mt := MediaType{original: s, quality: 1.0}

	parts := splitQuoted(s, ';')
	fullType := strings.ToLower(strings.TrimSpace(parts[0]))
	if fullType == "" {
		fullType = Wildcard + "/" + Wildcard
	}

	main, sub, _ := strings.Cut(fullType, "/")
	mt.mainType = strings.TrimSpace(main)
	mt.subType = strings.TrimSpace(sub)

	all := parseParams(parts[1:])

	var qualityErr error
	for _, p := range all {
		if p.Name != "q" {
			mt.params = append(mt.params, p)
			continue
		}

		q, err := parseQuality(p.Value)
		if err != nil {
			qualityErr = fmt.Errorf("%w: %q", ErrInvalidQuality, p.Value)
			continue
		}
		mt.quality = q
		mt.qualityExplicit = true
	}

	return mt, qualityErr
}

// MustParse is like Parse but panics on a malformed quality value.
func MustParse(s string) MediaType {
	mt, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return mt
}

// Matches reports whether a handler declaring lhs accepts content described
// by rhs. Quality errors are ignored.
func Matches(lhs, rhs string) bool {
	l, _ := Parse(lhs)
	r, _ := Parse(rhs)
	return l.Match(r)
}

// ParseList splits a header on commas and parses every entry. The returned
// slice always holds every entry; err is the first quality error seen.
func ParseList(header string) ([]MediaType, error) {
	tokens := strings.Split(header, ",")
	types := make([]MediaType, 0, len(tokens))

	var firstErr error
	for _, token := range tokens {
		mt, err := Parse(strings.TrimSpace(token))
		if err != nil && firstErr == nil {
			firstErr = err
		}
		types = append(types, mt)
	}

	return types, firstErr
}

func (m MediaType) Type() string {
	return m.mainType
}

func (m MediaType) SubType() string {
	return m.subType
}

// FullType returns "type/subtype" without parameters.
func (m MediaType) FullType() string {
	return m.mainType + "/" + m.subType
}

// Params returns a copy of the parameters in their original order, without q.
func (m MediaType) Params() []Param {
	if len(m.params) == 0 {
		return nil
	}
	out := make([]Param, len(m.params))
	copy(out, m.params)
	return out
}

func (m MediaType) Param(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, p := range m.params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

func (m MediaType) Quality() float64 {
	return m.quality
}

func (m MediaType) QualityExplicit() bool {
	return m.qualityExplicit
}

// Original returns the string Parse was called with.
func (m MediaType) Original() string {
	return m.original
}

// Match reports whether a handler declaring m would accept content described
// by other. It is not symmetric: every parameter of m must appear in other
// with the same value, while extra parameters in other are ignored.
// Wildcards on either side satisfy the type and subtype checks.
//
//	application/json        matches application/json; indent=4
//	application/json; indent=4 does not match application/json
func (m MediaType) Match(other MediaType) bool {
	for _, p := range m.params {
		v, ok := other.Param(p.Name)
		if !ok || v != p.Value {
			return false
		}
	}

	if m.subType != Wildcard && other.subType != Wildcard && m.subType != other.subType {
		return false
	}

	if m.mainType != Wildcard && other.mainType != Wildcard && m.mainType != other.mainType {
		return false
	}

	return true
}

// String reconstructs the media type: type/subtype, then q when it was given,
// then the remaining parameters in order.
func (m MediaType) String() string {
	var b strings.Builder
	b.WriteString(m.FullType())

	if m.qualityExplicit {
		b.WriteString("; q=")
		b.WriteString(strconv.FormatFloat(m.quality, 'g', -1, 64))
	}

	for _, p := range m.params {
		b.WriteString("; ")
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(p.Value))
	}

	return b.String()
}

func parseQuality(v string) (float64, error) {
	q, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(q) {
		return 0, strconv.ErrSyntax
	}

	return math.Min(math.Max(q, 0), 1), nil
}
