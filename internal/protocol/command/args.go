package command

import (
	"maps"
	"strings"
)

// Args is caller input: structured fields looked up by parameter name, and a
// free-form token list used when no field matches.
type Args struct {
	Fields map[string]any
	Tokens []string
}

// ParseArgs accepts strings, string slices, maps and Args in any mix.
// Strings are split on whitespace into tokens; maps merge into Fields with
// later values winning.
func ParseArgs(parts ...any) Args {
	args := Args{Fields: map[string]any{}}
	for _, part := range parts {
		switch p := part.(type) {
		case nil:
		case string:
			args.Tokens = append(args.Tokens, strings.Fields(p)...)
		case []string:
			for _, s := range p {
				args.Tokens = append(args.Tokens, strings.Fields(s)...)
			}
		case map[string]any:
			maps.Copy(args.Fields, p)
		case Args:
			maps.Copy(args.Fields, p.Fields)
			args.Tokens = append(args.Tokens, p.Tokens...)
		}
	}
	return args
}

// Fields is shorthand for structured-only input.
func Fields(kv map[string]any) Args {
	return ParseArgs(kv)
}

func (a Args) clone() Args {
	out := Args{Fields: make(map[string]any, len(a.Fields))}
	maps.Copy(out.Fields, a.Fields)
	out.Tokens = append([]string(nil), a.Tokens...)
	return out
}
