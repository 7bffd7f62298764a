package codec

import (
	"fmt"
	"time"
)

// generic rewrites decoded values into the shapes every renderer accepts:
// string-keyed maps, []any slices and scalars. Times become RFC 3339 strings.
func generic(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = generic(item)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = generic(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = generic(item)
		}
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = generic(item)
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return v
	}
}
