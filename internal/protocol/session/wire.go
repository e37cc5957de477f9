package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/danmuck/amcpctl/internal/protocol/response"
)

const (
	lineTerminator = "\r\n"
	requestPrefix  = "REQ"
)

var ErrLineTooLong = errors.New("session: reply line exceeds limit")

// frameRequest prefixes wire text with the request token when request
// framing is active.
func frameRequest(framing Framing, token, wire string) string {
	if framing != FramingRequest || token == "" {
		return wire
	}
	return requestPrefix + " " + token + " " + wire
}

func writeLine(w io.Writer, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("session: line contains a line break: %q", line)
	}
	_, err := io.WriteString(w, line+lineTerminator)
	return err
}

// replyReader decodes status lines and their bodies from a stream.
type replyReader struct {
	r        *bufio.Reader
	maxBytes int
}

func newReplyReader(r io.Reader, maxBytes int) *replyReader {
	return &replyReader{r: bufio.NewReader(r), maxBytes: maxBytes}
}

func (rr *replyReader) readLine() (string, error) {
	var buf []byte
	for {
		chunk, err := rr.r.ReadSlice('\n')
		buf = append(buf, chunk...)
		if rr.maxBytes > 0 && len(buf) > rr.maxBytes {
			return "", fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(buf))
		}
		if err == nil {
			return strings.TrimRight(string(buf), "\r\n"), nil
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(buf) > 0 {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
}

// readReply reads one status line and the body its code implies. Blank
// lines ahead of a status line are skipped.
func (rr *replyReader) readReply() (response.Message, error) {
	var line string
	for {
		l, err := rr.readLine()
		if err != nil {
			return response.Message{}, err
		}
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	msg, err := response.ParseStatusLine(line)
	if err != nil {
		return response.Message{}, err
	}

	switch response.FramingFor(msg.Code) {
	case response.BodySingleLine:
		l, err := rr.readLine()
		if err != nil {
			return response.Message{}, err
		}
		msg.Lines = []string{l}
	case response.BodyMultiLine:
		for {
			l, err := rr.readLine()
			if err != nil {
				return response.Message{}, err
			}
			if l == "" {
				break
			}
			msg.Lines = append(msg.Lines, l)
		}
	}
	return msg, nil
}

func setWriteDeadline(ctx context.Context, conn net.Conn, timeout time.Duration) error {
	return conn.SetWriteDeadline(deadlineFor(ctx, timeout))
}

func setReadDeadline(ctx context.Context, conn net.Conn, timeout time.Duration) error {
	return conn.SetReadDeadline(deadlineFor(ctx, timeout))
}

// deadlineFor returns the earlier of now+timeout and the ctx deadline.
// Zero means no deadline.
func deadlineFor(ctx context.Context, timeout time.Duration) time.Time {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (deadline.IsZero() || ctxDeadline.Before(deadline)) {
		deadline = ctxDeadline
	}
	return deadline
}
