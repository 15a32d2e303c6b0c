package cpi

import (
	"encoding/json"
	"fmt"
	"math"
)

// Params is the untyped parameter mapping supplied by a caller for one
// dispatch. Values arrive as JSON-ish dynamic types (string, float64, bool,
// nil); the extractors below are the only place they are converted to typed
// values, so nothing untyped leaks into command-building code. Keys not
// consumed by an executor are ignored. A nil value is treated as absent.
type Params map[string]any

// String extracts a required string parameter.
func (p Params) String(name string) (string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required parameter: %s", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", name)
	}
	return s, nil
}

// StringOpt extracts an optional string parameter. The second return value
// reports presence; the caller substitutes its own default when absent.
func (p Params) StringOpt(name string) (string, bool, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("parameter %s must be a string", name)
	}
	return s, true, nil
}

// Int extracts a required integer parameter. Numeric values are accepted in
// any of the forms a JSON decoder produces, but must be exactly integral and
// representable as int64; fractional values are a type error, not a
// truncation.
func (p Params) Int(name string) (int64, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing required parameter: %s", name)
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("parameter %s must be an integer", name)
	}
	return n, nil
}

// IntOpt extracts an optional integer parameter.
func (p Params) IntOpt(name string) (int64, bool, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, false, fmt.Errorf("parameter %s must be an integer", name)
	}
	return n, true, nil
}

// Bool extracts a required boolean parameter. No current action declares a
// boolean, but the contract supports the type.
func (p Params) Bool(name string) (bool, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return false, fmt.Errorf("missing required parameter: %s", name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %s must be a boolean", name)
	}
	return b, nil
}

// BoolOpt extracts an optional boolean parameter.
func (p Params) BoolOpt(name string) (bool, bool, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, fmt.Errorf("parameter %s must be a boolean", name)
	}
	return b, true, nil
}

// toInt64 converts the numeric representations a decoded JSON document or a
// Go caller may hand us. Floats must carry an exact integral value.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
