// Package amcptest runs an in-process AMCP server for transport tests.
package amcptest

import (
	"bufio"
	"crypto/tls"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danmuck/amcpctl/internal/logging"
	"github.com/danmuck/amcpctl/internal/protocol/response"
	"github.com/danmuck/amcpctl/internal/protocol/version"
)

// Version strings as real servers report them.
const (
	Version207 = "2.0.7.e9fc25a Stable"
	Version218 = "2.1.8.12205 e2ab4eb"
	Version220 = "2.2.0 66a9e3e2 Stable"
)

// Request is one received command line.
type Request struct {
	// Token is set when the line was sent as "REQ <token> ...".
	Token string
	Line  string
	Verb  string
	Args  []string
}

// Handler answers a request. Returning false sends nothing.
type Handler func(Request) (response.Message, bool)

type Options struct {
	// Version is the VERSION reply; defaults to Version220. Servers older
	// than 2.2 reject REQ framing.
	Version  string
	Handlers map[string]Handler
	TLS      *tls.Config
}

type Server struct {
	ln       net.Listener
	opts     Options
	framing  bool
	mu       sync.Mutex
	received []Request
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
	closed   chan struct{}
}

// Start listens on a loopback port and stops with the test.
func Start(t testing.TB, opts Options) *Server {
	t.Helper()
	if opts.Version == "" {
		opts.Version = Version220
	}
	v, err := version.Parse(opts.Version)
	if err != nil {
		t.Fatalf("amcptest: version %q: %v", opts.Version, err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("amcptest: listen: %v", err)
	}
	if opts.TLS != nil {
		ln = tls.NewListener(ln, opts.TLS)
	}
	s := &Server{
		ln:      ln,
		opts:    opts,
		framing: version.SupportsRequestFraming(v),
		conns:   make(map[net.Conn]struct{}),
		closed:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.accept()
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Addr() string { return s.ln.Addr().String() }

// Received lists requests in arrival order.
func (s *Server) Received() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.received...)
}

// WaitReceived blocks until n requests arrived or the timeout passes.
func (s *Server) WaitReceived(n int, timeout time.Duration) []Request {
	deadline := time.Now().Add(timeout)
	for {
		got := s.Received()
		if len(got) >= n || time.Now().After(deadline) {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// DropConnections closes every accepted connection but keeps listening.
func (s *Server) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}

func (s *Server) Close() {
	select {
	case <-s.closed:
		return
	default:
	}
	close(s.closed)
	_ = s.ln.Close()
	s.DropConnections()
	s.wg.Wait()
}

func (s *Server) accept() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logging.Debugf("amcptest accept err=%v", err)
			}
			return
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	reader := bufio.NewReader(conn)
	var writeMu sync.Mutex
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		req := parseRequest(line)
		s.mu.Lock()
		s.received = append(s.received, req)
		s.mu.Unlock()

		if req.Verb == "BYE" {
			return
		}
		msg, ok := s.answer(req)
		if !ok {
			continue
		}
		writeMu.Lock()
		_, err = conn.Write([]byte(msg.Format()))
		writeMu.Unlock()
		if err != nil {
			return
		}
	}
}

func (s *Server) answer(req Request) (response.Message, bool) {
	if req.Token != "" && !s.framing {
		return response.Message{Code: response.CodeBadCommand, Verb: "ERROR"}, true
	}
	var (
		msg response.Message
		ok  bool
	)
	if h, found := s.opts.Handlers[req.Verb]; found {
		msg, ok = h(req)
	} else {
		msg, ok = s.defaultAnswer(req), true
	}
	if ok && req.Token != "" {
		msg.Token = req.Token
	}
	return msg, ok
}

func (s *Server) defaultAnswer(req Request) response.Message {
	if req.Verb == "VERSION" {
		return Data(req.Verb, s.opts.Version)
	}
	return OK(req.Verb)
}

func parseRequest(line string) Request {
	req := Request{Line: line}
	fields := strings.Fields(line)
	if len(fields) >= 2 && fields[0] == "REQ" {
		req.Token = fields[1]
		fields = fields[2:]
		req.Line = strings.Join(fields, " ")
	}
	if len(fields) > 0 {
		req.Verb = strings.ToUpper(fields[0])
		req.Args = fields[1:]
	}
	return req
}

// OK is a 202 reply.
func OK(verb string) response.Message {
	return response.Message{Code: response.CodeOK, Verb: verb, Status: "OK"}
}

// Data is a 201 reply with one data line.
func Data(verb, line string) response.Message {
	return response.Message{Code: response.CodeOKSingleLine, Verb: verb, Status: "OK", Lines: []string{line}}
}

// Lines is a 200 reply with a multi-line body.
func Lines(verb string, lines ...string) response.Message {
	return response.Message{Code: response.CodeOKMultiLine, Verb: verb, Status: "OK", Lines: lines}
}

// Fail is an error reply such as 404 LOAD FAILED.
func Fail(code int, verb string) response.Message {
	return response.Message{Code: code, Verb: verb, Status: "FAILED"}
}

// Static always answers msg.
func Static(msg response.Message) Handler {
	return func(Request) (response.Message, bool) { return msg, true }
}

// Silent never answers.
func Silent() Handler {
	return func(Request) (response.Message, bool) { return response.Message{}, false }
}
