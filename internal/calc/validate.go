// internal/calc/validate.go
package calc

import (
	"encoding/json"
	"math"
)

// Bounds limits the magnitude of a single parameter. Min and Max are
// inclusive.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// ValidateNumber checks that value is a finite number within bounds and
// returns it as a float64 so checks can be chained. It performs no I/O and
// leaves logging to the caller.
//
// Failure kinds: KindType for non-numeric values, KindInvalidValue for NaN or
// ±Inf, KindRange for out-of-bounds values.
func ValidateNumber(value any, param string, bounds Bounds) (float64, error) {
	v, ok := asFloat(value)
	if !ok {
		return 0, newError(KindType, "%s must be a number, got %T", param, value)
	}
	if math.IsNaN(v) {
		return 0, newError(KindInvalidValue, "%s must not be NaN", param)
	}
	if math.IsInf(v, 0) {
		return 0, newError(KindInvalidValue, "%s must be finite", param)
	}
	if !bounds.Contains(v) {
		return 0, newError(KindRange, "%s must be between %g and %g, got %g", param, bounds.Min, bounds.Max, v)
	}
	return v, nil
}

// asFloat widens the numeric types a decoded JSON payload or a native caller
// can reasonably supply. Booleans are deliberately not numbers.
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
