package response

import "fmt"

// Validator confirms the shape of a reply body and extracts its data.
type Validator interface {
	Validate(msg Message) (any, error)
}

// Parser turns validated body data into typed values.
type Parser interface {
	Parse(data any, ctx Context) (any, error)
}

// Context is state the owning command hands to its parser.
type Context struct {
	Channel int
	Layer   int
	Caller  any
}

// Signature declares the reply a command type expects.
type Signature struct {
	Code      int
	Validator Validator
	Parser    Parser
}

// Evaluate checks msg against the signature and returns the parsed data.
// Only one code is accepted per signature.
func (s Signature) Evaluate(msg Message, ctx Context) (any, error) {
	if msg.Code != s.Code {
		return nil, fmt.Errorf("%w: got %d want %d", ErrUnexpectedCode, msg.Code, s.Code)
	}

	var data any
	if s.Validator != nil {
		v, err := s.Validator.Validate(msg)
		if err != nil {
			return nil, err
		}
		data = v
	}

	if s.Parser != nil && present(data) {
		v, err := s.Parser.Parse(data, ctx)
		if err != nil {
			return nil, err
		}
		data = v
	}
	return data, nil
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		return true
	}
}
