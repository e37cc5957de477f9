package validate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number clamps numeric input into [Min, Max]. Out-of-range values are
// normalized, not rejected; a Positive validator still fails when the clamped
// value is negative. Round renders the value as a fixed-point string.
type Number struct {
	Min      float64
	Max      float64
	Positive bool
	Round    bool
	Decimals int
}

// Between clamps to [min, max] and accepts negatives.
func Between(min, max float64) Number {
	return Number{Min: min, Max: max}
}

// PositiveBetween clamps to [min, max] and rejects negative results.
func PositiveBetween(min, max float64) Number {
	return Number{Min: min, Max: max, Positive: true}
}

// PositiveRoundBetween is PositiveBetween rendered with no decimals.
func PositiveRoundBetween(min, max float64) Number {
	return Number{Min: min, Max: max, Positive: true, Round: true}
}

// Unbounded accepts any number.
func Unbounded() Number {
	return Number{Min: math.Inf(-1), Max: math.Inf(1)}
}

// PositiveNumber accepts any non-negative number.
func PositiveNumber() Number {
	return Number{Min: 0, Max: math.Inf(1), Positive: true}
}

func (n Number) Resolve(in Input, _ string) (Resolved, error) {
	field, ok := in.(Field)
	if !ok {
		return Resolved{}, unresolved("number requires a structured value")
	}
	v, ok := ToFloat(field.Value)
	if !ok {
		return Resolved{}, unresolved("not a number")
	}
	clamped, ok := n.Clamp(v)
	if !ok {
		return Resolved{}, unresolved("negative number")
	}
	if n.Round {
		return Resolved{Payload: strconv.FormatFloat(clamped, 'f', n.Decimals, 64), Raw: v}, nil
	}
	return Resolved{Payload: clamped, Raw: v}, nil
}

// Clamp applies the range and sign rules to v.
func (n Number) Clamp(v float64) (float64, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	clamped := math.Max(math.Min(v, n.Max), n.Min)
	if n.Positive && clamped < 0 {
		return 0, false
	}
	return clamped, true
}

// Frame reads a non-negative frame count, either as the token following
// Keyword in a token list or as a structured number.
type Frame struct {
	Keyword string
}

func (f Frame) Resolve(in Input, _ string) (Resolved, error) {
	var (
		v  float64
		ok bool
	)
	switch t := in.(type) {
	case Tokens:
		for i, tok := range t {
			if strings.EqualFold(tok, f.Keyword) && i+1 < len(t) {
				n, err := strconv.ParseInt(t[i+1], 10, 64)
				v, ok = float64(n), err == nil
				break
			}
		}
	case Field:
		v, ok = ToFloat(t.Value)
	}
	if !ok || v < 0 || math.IsNaN(v) {
		return Resolved{}, unresolved("invalid frame count")
	}
	return Value(math.Trunc(v)), nil
}

// ToFloat coerces numeric values and numeric strings.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
