package response

import (
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// TextKey holds element text when the element also has attributes or children.
const TextKey = "_"

type xmlNode struct {
	fields map[string]any
	text   strings.Builder
}

// DecodeXML converts an XML document into nested maps. Element and attribute
// names are lower-cased, numeric text becomes int64 or float64, "true" and
// "false" become bools, attributes are merged into their element and repeated
// children collapse into a []any. The root element itself is not kept.
func DecodeXML(doc string) (any, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))

	var (
		stack []*xmlNode
		names []string
		root  any
		seen  bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{fields: map[string]any{}}
			for _, attr := range t.Attr {
				node.set(strings.ToLower(attr.Name.Local), coerceNumber(attr.Value))
			}
			stack = append(stack, node)
			names = append(names, strings.ToLower(t.Name.Local))
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced end element")
			}
			node := stack[len(stack)-1]
			name := names[len(names)-1]
			stack, names = stack[:len(stack)-1], names[:len(names)-1]
			value := node.value()
			if len(stack) == 0 {
				root, seen = value, true
				continue
			}
			stack[len(stack)-1].set(name, value)
		}
	}
	if len(stack) > 0 {
		return nil, errors.New("unterminated element")
	}
	if !seen {
		return nil, errors.New("no root element")
	}
	return root, nil
}

func (n *xmlNode) set(name string, value any) {
	existing, ok := n.fields[name]
	if !ok {
		n.fields[name] = value
		return
	}
	if list, ok := existing.([]any); ok {
		n.fields[name] = append(list, value)
		return
	}
	n.fields[name] = []any{existing, value}
}

func (n *xmlNode) value() any {
	text := strings.TrimSpace(n.text.String())
	if len(n.fields) == 0 {
		if text == "" {
			return ""
		}
		return coerceValue(text)
	}
	if text != "" {
		n.fields[TextKey] = coerceValue(text)
	}
	return n.fields
}

func coerceValue(s string) any {
	v := coerceNumber(s)
	if str, ok := v.(string); ok {
		switch strings.ToLower(str) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return v
}

func coerceNumber(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		if f == float64(int64(f)) && !strings.ContainsAny(trimmed, "eE") {
			return int64(f)
		}
		return f
	}
	return s
}
