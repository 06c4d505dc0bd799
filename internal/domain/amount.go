package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces an amount field supplied as either a numeric value or
// a numeric string into a float64. This is the single validation point for
// money input: everything downstream can assume a finite, non-negative
// magnitude and never sees NaN.
func ParseAmount(field string, value interface{}) (float64, error) {
	var amount float64

	switch v := value.(type) {
	case float64:
		amount = v
	case float32:
		amount = float64(v)
	case int:
		amount = float64(v)
	case int64:
		amount = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, NewValidationError(field, "not a number: "+v.String())
		}
		amount = parsed
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, NewValidationError(field, "empty string")
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, NewValidationError(field, "not a number: "+v)
		}
		amount = parsed
	case nil:
		return 0, NewValidationError(field, "missing")
	default:
		return 0, NewValidationError(field, "unsupported type")
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, NewValidationError(field, "not a finite number")
	}
	if amount < 0 {
		return 0, NewValidationError(field, "must not be negative")
	}

	return amount, nil
}
