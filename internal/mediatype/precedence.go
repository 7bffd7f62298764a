package mediatype

import (
	"cmp"
	"sort"
)

// Precedence ranks media-type expressions: concrete types above wildcards,
// parameterized above bare, then by quality. Fields compare in order.
type Precedence struct {
	ConcreteType    bool
	ConcreteSubType bool
	HasParams       bool
	Quality         float64
}

func (m MediaType) Precedence() Precedence {
	return Precedence{
		ConcreteType:    m.mainType != Wildcard,
		ConcreteSubType: m.subType != Wildcard,
		HasParams:       len(m.params) > 0,
		Quality:         m.quality,
	}
}

// Compare returns -1, 0 or +1 as p ranks below, equal to or above o.
func (p Precedence) Compare(o Precedence) int {
	if c := compareBool(p.ConcreteType, o.ConcreteType); c != 0 {
		return c
	}
	if c := compareBool(p.ConcreteSubType, o.ConcreteSubType); c != 0 {
		return c
	}
	if c := compareBool(p.HasParams, o.HasParams); c != 0 {
		return c
	}
	return cmp.Compare(p.Quality, o.Quality)
}

// SortByPrecedence sorts types in place, highest precedence first. Ties keep
// their relative order.
func SortByPrecedence(types []MediaType) {
	sort.SliceStable(types, func(i, j int) bool {
		return types[i].Precedence().Compare(types[j].Precedence()) > 0
	})
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
