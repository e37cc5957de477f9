package validate

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var propertiesGrammar = regexp.MustCompile(`^\((\w+=("[^"]*"|\d+) ?)*\)$`)

// StingProperties are the options of a STING transition.
type StingProperties struct {
	MaskFile          string `json:"maskFile,omitempty"`
	Delay             int    `json:"delay,omitempty"`
	OverlayFile       string `json:"overlayFile,omitempty"`
	AudioFadeStart    int    `json:"audioFadeStart,omitempty"`
	AudioFadeDuration int    `json:"audioFadeDuration,omitempty"`
}

var stingKeys = []struct {
	field string
	wire  string
}{
	{"maskFile", "MASK"},
	{"overlayFile", "OVERLAY"},
	{"delay", "TRIGGER_POINT"},
	{"audioFadeStart", "AUDIO_FADE_START"},
	{"audioFadeDuration", "AUDIO_FADE_DURATION"},
}

// TransitionProperties renders parenthesized KEY="value" lists.
type TransitionProperties struct{}

func (TransitionProperties) Resolve(in Input, _ string) (Resolved, error) {
	field, ok := in.(Field)
	if !ok {
		if tokens, isTokens := in.(Tokens); isTokens {
			for _, tok := range tokens {
				if propertiesGrammar.MatchString(tok) {
					return Value(tok), nil
				}
			}
		}
		return Resolved{}, unresolved("no transition properties")
	}

	var props map[string]any
	switch v := field.Value.(type) {
	case string:
		if propertiesGrammar.MatchString(strings.TrimSpace(v)) {
			return Value(strings.TrimSpace(v)), nil
		}
		return Resolved{}, unresolved("malformed transition properties")
	case StingProperties:
		props = stingMap(v)
	case *StingProperties:
		if v == nil {
			return Resolved{}, unresolved("no transition properties")
		}
		props = stingMap(*v)
	case map[string]any:
		props = v
	default:
		return Resolved{}, unresolved("unsupported transition properties")
	}

	rendered := renderProperties(props)
	if rendered == "" {
		return Resolved{}, unresolved("empty transition properties")
	}
	raw, _ := json.Marshal(props)
	return Resolved{Payload: rendered, Raw: string(raw)}, nil
}

func stingMap(p StingProperties) map[string]any {
	out := make(map[string]any)
	if p.MaskFile != "" {
		out["maskFile"] = p.MaskFile
	}
	if p.OverlayFile != "" {
		out["overlayFile"] = p.OverlayFile
	}
	if p.Delay != 0 {
		out["delay"] = p.Delay
	}
	if p.AudioFadeStart != 0 {
		out["audioFadeStart"] = p.AudioFadeStart
	}
	if p.AudioFadeDuration != 0 {
		out["audioFadeDuration"] = p.AudioFadeDuration
	}
	return out
}

// renderProperties writes known keys in protocol order, then the remaining
// keys sorted by wire name. Empty and zero values are skipped.
func renderProperties(props map[string]any) string {
	parts := make([]string, 0, len(props))
	seen := make(map[string]bool, len(stingKeys))
	for _, k := range stingKeys {
		seen[k.field] = true
		if s, ok := propertyValue(props[k.field]); ok {
			parts = append(parts, k.wire+`="`+s+`"`)
		}
	}

	extra := make([]string, 0)
	for name, v := range props {
		if seen[name] {
			continue
		}
		if s, ok := propertyValue(v); ok {
			extra = append(extra, upperSnake(name)+`="`+s+`"`)
		}
	}
	sort.Strings(extra)
	parts = append(parts, extra...)

	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func propertyValue(v any) (string, bool) {
	s, ok := stringify(v)
	if !ok || s == "" || s == "0" || s == "false" {
		return "", false
	}
	return s, true
}

func upperSnake(name string) string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range name {
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
		prev = r
	}
	return b.String()
}
