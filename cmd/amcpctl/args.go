package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/amcpctl/internal/protocol/command"
)

// maxKeyWords bounds catalog keys such as "MIXER FILL QUERY".
const maxKeyWords = 3

// resolveCommand turns shell words into a catalog key and args. Both the
// wire order ("CG 1-20 ADD ...") and the key order ("CG ADD 1-20 ...") are
// accepted. params are key=value pairs merged into the fields.
func resolveCommand(catalog *command.Catalog, words []string, params []string) (string, command.Args, error) {
	if len(words) == 0 {
		return "", command.Args{}, fmt.Errorf("%w: no verb", command.ErrMalformedWire)
	}
	fields := map[string]any{}
	key := strings.ToUpper(words[0])
	rest := words[1:]

	addressed := takeAddress(&rest, fields)
	for n := maxKeyWords - 1; n >= 1; n-- {
		if len(rest) < n {
			continue
		}
		candidate := key + " " + strings.ToUpper(strings.Join(rest[:n], " "))
		if _, ok := catalog.Lookup(candidate); ok {
			key = candidate
			rest = rest[n:]
			break
		}
	}
	if !addressed {
		takeAddress(&rest, fields)
	}
	if _, ok := catalog.Lookup(key); !ok {
		return "", command.Args{}, fmt.Errorf("%w: %s", command.ErrUnknownVerb, key)
	}

	for _, kv := range params {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return "", command.Args{}, fmt.Errorf("param %q: want key=value", kv)
		}
		fields[name] = parseValue(value)
	}
	return key, command.ParseArgs(fields, command.Args{Tokens: rest}), nil
}

func takeAddress(rest *[]string, fields map[string]any) bool {
	if len(*rest) == 0 {
		return false
	}
	ch, layer, ok := command.ParseAddress((*rest)[0])
	if !ok {
		return false
	}
	if ch != command.NoChannel {
		fields["channel"] = ch
	}
	if layer != command.NoLayer {
		fields["layer"] = layer
	}
	*rest = (*rest)[1:]
	return true
}

// parseValue types a --param value: bools, integers, floats and JSON
// objects or arrays; anything else stays text.
func parseValue(raw string) any {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if strings.HasPrefix(v, "{") || strings.HasPrefix(v, "[") {
		var out any
		if err := json.Unmarshal([]byte(v), &out); err == nil {
			return out
		}
	}
	return raw
}
