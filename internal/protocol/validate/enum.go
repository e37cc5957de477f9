package validate

import (
	"strings"
)

// Enum looks normalized input up in a closed symbol table. Only structured
// fields resolve unless MatchTokens is set: in a shared token list a symbol
// such as MIX or PUSH may belong to another parameter.
type Enum struct {
	Table       map[string]string
	MatchTokens bool
}

// FromTokens returns a copy of e that also scans free-form token lists.
// Use it only where the enum is the sole positional value of its verb.
func (e Enum) FromTokens() Enum {
	e.MatchTokens = true
	return e
}

func (e Enum) Resolve(in Input, _ string) (Resolved, error) {
	switch t := in.(type) {
	case Tokens:
		if !e.MatchTokens {
			break
		}
		for _, tok := range t {
			if v, ok := e.lookup(tok); ok {
				return Resolved{Payload: v, Raw: tok}, nil
			}
		}
	case Field:
		if s, ok := stringify(t.Value); ok {
			if v, ok := e.lookup(s); ok {
				return Resolved{Payload: v, Raw: s}, nil
			}
		}
	}
	return Resolved{}, unresolved("unknown enum value")
}

func (e Enum) lookup(raw string) (string, bool) {
	v, ok := e.Table[normalizeSymbol(raw)]
	return v, ok
}

func normalizeSymbol(raw string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), " ", "_")
}

// EnumOf builds an Enum whose symbols are their own wire values.
func EnumOf(symbols ...string) Enum {
	table := make(map[string]string, len(symbols))
	for _, s := range symbols {
		table[normalizeSymbol(s)] = s
	}
	return Enum{Table: table}
}

var channelFormats = EnumOf(
	"PAL", "NTSC",
	"576P2500",
	"720P2398", "720P2400", "720P2500", "720P5000", "720P2997", "720P5994", "720P3000", "720P6000",
	"1080P2398", "1080P2400", "1080I5000", "1080I5994", "1080I6000",
	"1080P2500", "1080P2997", "1080P3000", "1080P5000", "1080P5994", "1080P6000",
	"1556P2398", "1556P2400", "1556P2500",
	"DCI1080P2398", "DCI1080P2400", "DCI1080P2500",
	"2160P2398", "2160P2400", "2160P2500", "2160P2997", "2160P3000", "2160P5000", "2160P5994", "2160P6000",
	"DCI2160P2398", "DCI2160P2400", "DCI2160P2500",
)

// ChannelFormat validates video mode names such as "1080i5000".
func ChannelFormat() Enum {
	return channelFormats.FromTokens()
}

// Keyword matches a fixed word, e.g. LOOP or AUTO.
type Keyword struct {
	Keyword       string
	CaseSensitive bool
}

func (k Keyword) Resolve(in Input, _ string) (Resolved, error) {
	switch t := in.(type) {
	case Tokens:
		for _, tok := range t {
			if k.equal(tok) {
				return Value(k.Keyword), nil
			}
		}
	case Field:
		switch v := t.Value.(type) {
		case string:
			if k.equal(v) {
				return Value(k.Keyword), nil
			}
		case bool:
			if v {
				return Value(k.Keyword), nil
			}
		case map[string]any:
			for name := range v {
				if k.equal(name) {
					return Value(k.Keyword), nil
				}
			}
		}
	}
	return Resolved{}, unresolved("keyword " + k.Keyword + " not present")
}

func (k Keyword) equal(s string) bool {
	s = strings.TrimSpace(s)
	if k.CaseSensitive {
		return s == k.Keyword
	}
	return strings.EqualFold(s, k.Keyword)
}
