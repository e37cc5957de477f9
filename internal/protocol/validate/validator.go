package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnresolved is the soft failure every validator returns when input
	// could not be coerced. Callers treat it as "parameter absent".
	ErrUnresolved = errors.New("validate: unresolved")
	// ErrNotCommand is returned when a sub-command parameter is not a command.
	// Unlike ErrUnresolved it aborts the whole parameter pipeline.
	ErrNotCommand = errors.New("validate: value is not an amcp command")
)

// Input is what a signature hands to its validator.
type Input interface {
	input()
}

// Tokens is the free-form token list of a string invocation.
type Tokens []string

func (Tokens) input() {}

// Field is a structured value looked up by parameter name.
type Field struct {
	Value any
}

func (Field) input() {}

// Resolved is a validated value. Payload goes on the wire, Raw is the
// pre-formatting value kept for diagnostics.
type Resolved struct {
	Payload any
	Raw     any
}

// Value returns a Resolved whose payload and raw value are the same.
func Value(v any) Resolved {
	return Resolved{Payload: v, Raw: v}
}

// Validator coerces one parameter.
type Validator interface {
	Resolve(in Input, key string) (Resolved, error)
}

// IsUnresolved reports whether err is the soft validation failure.
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrUnresolved)
}

func unresolved(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnresolved, reason)
}

// Format renders a payload value as a wire token.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Format(t), true
	default:
		return "", false
	}
}

func firstToken(tokens Tokens) (string, bool) {
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			return tok, true
		}
	}
	return "", false
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
