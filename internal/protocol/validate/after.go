package validate

import "strings"

// After scans a token list for Keyword and validates the token that follows
// it. Structured input goes straight to the inner validator.
type After struct {
	Keyword   string
	Validator Validator
}

func (a After) Resolve(in Input, key string) (Resolved, error) {
	tokens, ok := in.(Tokens)
	if !ok {
		return a.Validator.Resolve(in, key)
	}
	for i, tok := range tokens {
		if strings.EqualFold(tok, a.Keyword) && i+1 < len(tokens) {
			return a.Validator.Resolve(Tokens{tokens[i+1]}, key)
		}
	}
	return Resolved{}, unresolved(a.Keyword + " not present")
}
