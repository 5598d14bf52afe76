package feature

import (
	"strconv"
	"strings"

	"finforge/pkg"
)

// Extract builds the fixed-order feature vector for one request. Every
// configured feature name gets a slot; values that are missing or cannot
// be coerced to a number come out as 0.0. Malformed client input degrades
// to the neutral default instead of failing the request.
func Extract(cfg pkg.GameConfig, payload map[string]any) pkg.FeatureVector {
	vec := pkg.FeatureVector{
		Names:  cfg.Features,
		Values: make([]float64, len(cfg.Features)),
	}
	for i, name := range cfg.Features {
		vec.Values[i] = coerce(payload[name])
	}
	return vec
}

// coerce converts an arbitrary payload scalar to float64, returning 0 on
// any value it cannot interpret as a number.
func coerce(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
