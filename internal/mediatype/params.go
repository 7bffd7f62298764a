package mediatype

import "strings"

// splitQuoted splits s on sep, ignoring separators inside double quotes.
// The result always has at least one element.
func splitQuoted(s string, sep byte) []string {
	var (
		parts   []string
		start   int
		quoted  bool
		escaped bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == sep && !quoted:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}

// parseParams turns "name=value" fragments into ordered params. Fragments
// without "=" or with an empty name are dropped. A repeated name keeps its
// first position and takes the last value.
func parseParams(fragments []string) []Param {
	var params []Param

	for _, f := range fragments {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}

		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		value = unquote(strings.TrimSpace(value))

		replaced := false
		for i := range params {
			if params[i].Name == name {
				params[i].Value = value
				replaced = true
				break
			}
		}
		if !replaced {
			params = append(params, Param{Name: name, Value: value})
		}
	}

	return params
}

func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}

	v = v[1 : len(v)-1]
	if !strings.Contains(v, `\`) {
		return v
	}

	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		b.WriteByte(v[i])
	}
	return b.String()
}

func quoteIfNeeded(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\";,=\\()<>@:/[]?{}") {
		return v
	}

	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(v) + `"`
}
