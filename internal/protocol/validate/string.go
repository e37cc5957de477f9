package validate

import (
	"encoding/json"
	"strings"
)

// String accepts any non-empty text. Lazy mode takes the first non-empty
// token, greedy mode joins every non-empty token with a single space.
type String struct {
	Greedy bool
}

func (s String) Resolve(in Input, _ string) (Resolved, error) {
	text, ok := s.text(in)
	if !ok {
		return Resolved{}, unresolved("empty string")
	}
	return Value(text), nil
}

func (s String) text(in Input) (string, bool) {
	switch v := in.(type) {
	case Tokens:
		if !s.Greedy {
			return firstToken(v)
		}
		parts := make([]string, 0, len(v))
		for _, tok := range v {
			if tok = strings.TrimSpace(tok); tok != "" {
				parts = append(parts, tok)
			}
		}
		text := strings.Join(parts, " ")
		return text, text != ""
	case Field:
		text, ok := stringify(v.Value)
		if !ok {
			return "", false
		}
		text = strings.TrimSpace(text)
		return text, text != ""
	default:
		return "", false
	}
}

// Quoted is a String whose payload is quoted (URLs, filter graphs).
type Quoted struct {
	String
}

func (q Quoted) Resolve(in Input, key string) (Resolved, error) {
	res, err := q.String.Resolve(in, key)
	if err != nil {
		return Resolved{}, err
	}
	text := res.Payload.(string)
	return Resolved{Payload: quote(text), Raw: text}, nil
}

// ClipName validates clip, template and data names: trimmed, non-empty
// (unless AllowEmpty) and quoted on the wire.
type ClipName struct {
	AllowEmpty bool
}

func (c ClipName) Resolve(in Input, _ string) (Resolved, error) {
	var name string
	switch v := in.(type) {
	case Tokens:
		name, _ = firstToken(v)
	case Field:
		text, ok := stringify(v.Value)
		if !ok {
			return Resolved{}, unresolved("clip name is not text")
		}
		name = strings.TrimSpace(text)
	}
	if name == "" && !c.AllowEmpty {
		return Resolved{}, unresolved("empty clip name")
	}
	return Resolved{Payload: quote(name), Raw: name}, nil
}

// TemplateData serializes template data. Structured values are encoded as
// JSON; strings have line breaks escaped. The result is escaped and quoted.
type TemplateData struct{}

func (TemplateData) Resolve(in Input, _ string) (Resolved, error) {
	var text string
	switch v := in.(type) {
	case Tokens:
		text = strings.Join(v, " ")
	case Field:
		switch data := v.Value.(type) {
		case nil:
			return Resolved{}, unresolved("no template data")
		case string:
			text = strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(data)
		default:
			encoded, err := json.Marshal(data)
			if err != nil {
				return Resolved{}, unresolved("template data not encodable")
			}
			text = string(encoded)
		}
	}
	if strings.TrimSpace(text) == "" {
		return Resolved{}, unresolved("empty template data")
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(text)
	return Resolved{Payload: `"` + escaped + `"`, Raw: escaped}, nil
}
