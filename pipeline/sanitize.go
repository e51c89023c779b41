package pipeline

import (
	"math"
	"strings"
)

// Sanitize converts a value into a JSON-safe form, recursing into maps and
// slices. NaN and ±Inf become nil (JSON has no encoding for them), blank
// strings become nil, and floats holding an integral value are narrowed to
// plain integers. Anything else passes through unchanged.
//
// Sanitize is total over the normalizer's output domain: it never panics.
func Sanitize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return sanitizeFloat(x)
	case float32:
		return sanitizeFloat(float64(x))
	case string:
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = Sanitize(el)
		}
		return out
	default:
		return v
	}
}

func sanitizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	// Integral floats are narrowed so spreadsheet numerics like 3.0 round-trip
	// as integers. Values beyond 2^53 stay floats to avoid precision lies.
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
