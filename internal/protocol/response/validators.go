package response

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Status accepts any non-error reply.
type Status struct{}

func (Status) Validate(msg Message) (any, error) {
	if msg.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidBody, msg.Code)
	}
	return true, nil
}

// String requires a non-empty first body line.
type String struct{}

func (String) Validate(msg Message) (any, error) {
	line := firstLine(msg)
	if line == "" {
		return nil, fmt.Errorf("%w: empty string body", ErrInvalidBody)
	}
	return line, nil
}

// Data is the DATA RETRIEVE body: the stored string, unchanged.
type Data struct{}

func (Data) Validate(msg Message) (any, error) {
	line := firstLine(msg)
	if line == "" {
		return nil, fmt.Errorf("%w: empty data body", ErrInvalidBody)
	}
	return line, nil
}

// Base64 requires the first line to be standard base64.
type Base64 struct{}

func (Base64) Validate(msg Message) (any, error) {
	line := strings.TrimSpace(firstLine(msg))
	if line == "" {
		return nil, fmt.Errorf("%w: empty base64 body", ErrInvalidBody)
	}
	if _, err := base64.StdEncoding.DecodeString(line); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return line, nil
}

// List passes the body lines through. An empty list is valid.
type List struct{}

func (List) Validate(msg Message) (any, error) {
	out := make([]string, 0, len(msg.Lines))
	for _, line := range msg.Lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// NumberVector reads a space separated list of numbers from the first line.
type NumberVector struct{}

func (NumberVector) Validate(msg Message) (any, error) {
	fields := strings.Fields(firstLine(msg))
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty numeric vector", ErrInvalidBody)
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not numeric", ErrInvalidBody, f)
		}
		out = append(out, v)
	}
	return out, nil
}

// XML decodes the body into a generic document; see DecodeXML.
type XML struct{}

func (XML) Validate(msg Message) (any, error) {
	body := strings.TrimSpace(strings.Join(msg.Lines, "\n"))
	if body == "" {
		return nil, fmt.Errorf("%w: empty xml body", ErrInvalidBody)
	}
	doc, err := DecodeXML(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return doc, nil
}

func firstLine(msg Message) string {
	if len(msg.Lines) == 0 {
		return ""
	}
	return msg.Lines[0]
}
