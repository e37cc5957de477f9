package validate

import (
	"strings"
)

// Bool decides a flag and maps the outcome to replacement values. Without
// OnFail a negative outcome is unresolved, so the parameter is left out.
type Bool struct {
	OnSuccess any
	OnFail    any
}

func (b Bool) Resolve(in Input, key string) (Resolved, error) {
	if b.Evaluate(in, key) {
		if b.OnSuccess != nil {
			return Value(b.OnSuccess), nil
		}
		return Value(true), nil
	}
	if b.OnFail != nil {
		return Value(b.OnFail), nil
	}
	return Resolved{}, unresolved("flag not set")
}

// Evaluate reports whether in switches the flag named key on.
func (b Bool) Evaluate(in Input, key string) bool {
	switch t := in.(type) {
	case Tokens:
		for i, tok := range t {
			if !strings.EqualFold(tok, key) {
				continue
			}
			if i+1 < len(t) {
				switch strings.ToLower(t[i+1]) {
				case "false", "0":
					return false
				}
			}
			return true
		}
		return false
	case Field:
		return truthy(t.Value, key)
	default:
		return false
	}
}

func truthy(v any, key string) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t == "true" || t == "1" || (key != "" && strings.EqualFold(t, key))
	case bool:
		return t
	default:
		if f, ok := ToFloat(t); ok {
			return f != 0
		}
		return true
	}
}
