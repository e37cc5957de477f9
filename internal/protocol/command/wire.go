package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/amcpctl/internal/protocol/validate"
)

// WireText renders "<VERB> <address>[ <SUB>][ <key> <value>]..." in
// signature order. Parameters must have validated.
func (c *Command) WireText() (string, error) {
	if !c.validated {
		return "", fmt.Errorf("%w: verb=%s", ErrNotValidated, c.Name())
	}
	if c.validateErr != nil {
		return "", c.validateErr
	}

	parts := []string{c.def.Verb}
	if addr := c.Address(); addr != "" {
		parts = append(parts, addr)
	}
	if c.def.Sub != "" {
		parts = append(parts, c.def.Sub)
	}
	for _, sig := range c.params {
		entry, ok := c.payload[sig.Name]
		if !ok {
			continue
		}
		if entry.Key != "" {
			parts = append(parts, entry.Key)
		}
		if v := validate.Format(entry.Value); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " "), nil
}

// Wire is a command line split back into its parts.
type Wire struct {
	Name string
	// Key is the catalog key. It differs from Name for query forms that
	// share a verb with a setter: "MIXER 1-0 OPACITY" with no values is
	// "MIXER OPACITY QUERY".
	Key     string
	Channel int
	Layer   int
	Params  []string
}

// ParseWire recovers the verb, channel and layer of a wire line. Catalog
// lookups decide whether the word after the address is a sub-verb.
func ParseWire(line string, catalog *Catalog) (Wire, error) {
	fields := SplitLine(line)
	if len(fields) == 0 {
		return Wire{}, fmt.Errorf("%w: empty line", ErrMalformedWire)
	}
	w := Wire{Name: strings.ToUpper(fields[0]), Channel: NoChannel, Layer: NoLayer}
	rest := fields[1:]

	if len(rest) > 0 {
		if ch, layer, ok := ParseAddress(rest[0]); ok {
			w.Channel, w.Layer = ch, layer
			rest = rest[1:]
		}
	}
	if len(rest) > 0 && catalog != nil {
		if _, ok := catalog.Lookup(w.Name + " " + strings.ToUpper(rest[0])); ok {
			w.Name += " " + strings.ToUpper(rest[0])
			rest = rest[1:]
		}
	}
	if catalog != nil {
		if _, ok := catalog.Lookup(w.Name); !ok {
			return Wire{}, fmt.Errorf("%w: %s", ErrUnknownVerb, w.Name)
		}
	}
	w.Params = rest
	w.Key = w.Name
	if len(rest) == 0 && catalog != nil {
		if _, ok := catalog.Lookup(w.Name + " QUERY"); ok {
			w.Key = w.Name + " QUERY"
		}
	}
	return w, nil
}

// SplitLine splits on blanks outside double quotes and removes the quotes.
// Inside quotes a backslash escapes the next rune.
func SplitLine(line string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		started bool
	)
	flush := func() {
		if started {
			out = append(out, cur.String())
		}
		cur.Reset()
		started = false
	}
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return out
}

// Snapshot is the serializable view of a command.
type Snapshot struct {
	Name     string                  `json:"name" yaml:"name"`
	Token    string                  `json:"token" yaml:"token"`
	Channel  int                     `json:"channel" yaml:"channel"`
	Layer    int                     `json:"layer" yaml:"layer"`
	Address  string                  `json:"address,omitempty" yaml:"address,omitempty"`
	Wire     string                  `json:"wire,omitempty" yaml:"wire,omitempty"`
	Payload  map[string]PayloadEntry `json:"payload,omitempty" yaml:"payload,omitempty"`
	Response Response                `json:"response" yaml:"response"`
	Status   Status                  `json:"status" yaml:"status"`
	Error    string                  `json:"error,omitempty" yaml:"error,omitempty"`
	Created  time.Time               `json:"created" yaml:"created"`
}

func (c *Command) Snapshot() Snapshot {
	s := Snapshot{
		Name:     c.Name(),
		Token:    c.token,
		Channel:  c.channel,
		Layer:    c.layer,
		Address:  c.Address(),
		Payload:  c.Payload(),
		Response: c.Response(),
		Status:   c.Status(),
		Created:  c.created,
	}
	if wire, err := c.WireText(); err == nil {
		s.Wire = wire
	}
	if err := c.Err(); err != nil {
		s.Error = err.Error()
	}
	return s
}
