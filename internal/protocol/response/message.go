package response

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformedStatus = errors.New("response: malformed status line")
	ErrUnexpectedCode  = errors.New("response: unexpected status code")
	ErrInvalidBody     = errors.New("response: invalid body")
	ErrParse           = errors.New("response: parse failed")
)

// AMCP status codes.
const (
	CodeInfo          = 101
	CodeOKMultiLine   = 200
	CodeOKSingleLine  = 201
	CodeOK            = 202
	CodeBadCommand    = 400
	CodeIllegalChan   = 401
	CodeParamMissing  = 402
	CodeIllegalParam  = 403
	CodeMediaNotFound = 404
	CodeFailed        = 500
	CodeInternalError = 501
	CodeMediaUnread   = 502
	CodeAccessError   = 503
)

const requestReplyPrefix = "RES"

// Message is one decoded reply unit: the status line plus its body lines.
type Message struct {
	Code  int
	Token string
	Verb  string
	// Status is the text after the verb, e.g. "OK" or "PLAY FAILED".
	Status string
	Raw    string
	Lines  []string
}

// IsError reports whether the reply carries a 4xx/5xx code.
func (m Message) IsError() bool {
	return m.Code >= 400
}

// BodyFraming describes how many lines follow a status line.
type BodyFraming int

const (
	BodyNone BodyFraming = iota
	BodySingleLine
	// BodyMultiLine runs until an empty line.
	BodyMultiLine
)

// FramingFor returns the body framing used after a status code.
func FramingFor(code int) BodyFraming {
	switch code {
	case CodeOKMultiLine:
		return BodyMultiLine
	case CodeOKSingleLine, CodeInfo:
		return BodySingleLine
	default:
		return BodyNone
	}
}

// ParseStatusLine decodes "202 PLAY OK" or "RES <token> 202 PLAY OK".
func ParseStatusLine(line string) (Message, error) {
	raw := strings.TrimRight(line, "\r\n")
	fields := strings.Fields(raw)
	msg := Message{Raw: raw}

	if len(fields) > 0 && fields[0] == requestReplyPrefix {
		if len(fields) < 3 {
			return Message{}, fmt.Errorf("%w: %q", ErrMalformedStatus, raw)
		}
		msg.Token = fields[1]
		fields = fields[2:]
	}
	if len(fields) == 0 {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformedStatus, raw)
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil || code < 100 || code > 599 {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformedStatus, raw)
	}
	msg.Code = code
	if len(fields) > 1 {
		msg.Verb = fields[1]
	}
	if len(fields) > 2 {
		msg.Status = strings.Join(fields[2:], " ")
	}
	return msg, nil
}

// Format renders the message back into wire lines; used by test servers.
func (m Message) Format() string {
	var b strings.Builder
	if m.Token != "" {
		b.WriteString(requestReplyPrefix + " " + m.Token + " ")
	}
	b.WriteString(strconv.Itoa(m.Code))
	if m.Verb != "" {
		b.WriteString(" " + m.Verb)
	}
	if m.Status != "" {
		b.WriteString(" " + m.Status)
	}
	b.WriteString("\r\n")
	switch FramingFor(m.Code) {
	case BodySingleLine:
		if len(m.Lines) > 0 {
			b.WriteString(m.Lines[0] + "\r\n")
		} else {
			b.WriteString("\r\n")
		}
	case BodyMultiLine:
		for _, line := range m.Lines {
			b.WriteString(line + "\r\n")
		}
		b.WriteString("\r\n")
	}
	return b.String()
}
