package session

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-semver/semver"

	"github.com/danmuck/amcpctl/internal/logging"
	"github.com/danmuck/amcpctl/internal/observability"
	"github.com/danmuck/amcpctl/internal/protocol/command"
	"github.com/danmuck/amcpctl/internal/protocol/response"
	"github.com/danmuck/amcpctl/internal/protocol/version"
)

var (
	ErrNotConnected     = errors.New("session: not connected")
	ErrAlreadyConnected = errors.New("session: already connected")
	ErrClosed           = errors.New("session: connection closed")
	ErrCommandTimeout   = errors.New("session: command timed out")
	ErrNegotiation      = errors.New("session: version negotiation failed")
)

// Client owns one AMCP connection. Do is safe for concurrent use.
type Client struct {
	cfg     Config
	catalog *command.Catalog
	rng     *rand.Rand

	mu       sync.Mutex
	conn     net.Conn
	closed   chan struct{}
	closeErr error
	version  *semver.Version
	framing  Framing

	// writeMu orders pending registration with the write so FIFO slots
	// match the byte order on the wire.
	writeMu sync.Mutex
	pending *PendingTable
}

type Option func(*Client)

// WithCatalog replaces the default verb catalog.
func WithCatalog(c *command.Catalog) Option {
	return func(cl *Client) {
		if c != nil {
			cl.catalog = c
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()
	cfg.Framing = Framing(strings.ToLower(string(cfg.Framing)))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:     cfg,
		catalog: command.Default(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		pending: NewPendingTable(),
		framing: FramingFIFO,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Config() Config            { return c.cfg }
func (c *Client) Catalog() *command.Catalog { return c.catalog }
func (c *Client) Pending() []PendingInfo    { return c.pending.Snapshot() }

// Version is the negotiated or configured server version; nil before
// Connect.
func (c *Client) Version() *semver.Version {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Framing is the reply correlation mode in effect.
func (c *Client) Framing() Framing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.framing
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect dials the server with backoff and settles version and framing.
func (c *Client) Connect(ctx context.Context) error {
	if c.Connected() {
		return ErrAlreadyConnected
	}

	var attempt int
	for {
		attempt++
		conn, err := c.dial(ctx)
		observability.RecordConnect(err == nil)
		if err != nil {
			logging.Warnf("session.Client dial attempt=%d addr=%q err=%v", attempt, c.cfg.Address, err)
			if ctx.Err() != nil || !c.shouldRetry(attempt) {
				return err
			}
			if err := c.sleepBackoff(ctx, attempt); err != nil {
				return err
			}
			continue
		}

		c.attach(conn)
		err = c.negotiate(ctx)
		if err == nil {
			logging.Infof("session.Client connected addr=%q version=%s framing=%s", c.cfg.Address, c.Version(), c.Framing())
			return nil
		}
		_ = c.Close()
		if ctx.Err() != nil || !c.shouldRetry(attempt) {
			return err
		}
		if err := c.sleepBackoff(ctx, attempt); err != nil {
			return err
		}
	}
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.cfg.ConnectTimeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", c.cfg.Address)
	if err != nil {
		return nil, err
	}
	if !c.cfg.TLS.Enabled {
		return rawConn, nil
	}

	tlsCfg, err := c.cfg.clientTLSConfig()
	if err != nil {
		_ = rawConn.Close()
		return nil, err
	}
	conn := tls.Client(rawConn, tlsCfg)
	handshakeCtx, cancel := context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
	defer cancel()
	if err := conn.HandshakeContext(handshakeCtx); err != nil {
		_ = rawConn.Close()
		return nil, err
	}
	return conn, nil
}

func (c *Client) shouldRetry(attempt int) bool {
	if c.cfg.MaxConnectAttempts <= 0 {
		return true
	}
	return attempt < c.cfg.MaxConnectAttempts
}

func (c *Client) sleepBackoff(ctx context.Context, attempt int) error {
	return sleepContext(ctx, NextBackoffDelay(c.cfg.Backoff, attempt, c.rng))
}

func (c *Client) attach(conn net.Conn) {
	closed := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.closed = closed
	c.closeErr = nil
	c.framing = FramingFIFO
	c.mu.Unlock()
	go c.readLoop(conn)
}

// negotiate resolves the server version, asking with VERSION when the
// config says auto, then picks the framing. Untagged FIFO framing is used
// until it completes.
func (c *Client) negotiate(ctx context.Context) error {
	var v *semver.Version
	if raw := strings.TrimSpace(c.cfg.ServerVersion); !strings.EqualFold(raw, VersionAuto) {
		parsed, err := version.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNegotiation, err)
		}
		v = parsed
	} else {
		cmd, err := c.catalog.Build("VERSION", command.Args{})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNegotiation, err)
		}
		if err := c.Do(ctx, cmd); err != nil {
			return fmt.Errorf("%w: %w", ErrNegotiation, err)
		}
		info, ok := cmd.Response().Data.(response.VersionInfo)
		if !ok || info.Version == nil {
			return fmt.Errorf("%w: unexpected VERSION data %T", ErrNegotiation, cmd.Response().Data)
		}
		v = info.Version
	}

	framing := c.cfg.Framing
	if framing == FramingAuto {
		framing = FramingFIFO
		if version.SupportsRequestFraming(v) {
			framing = FramingRequest
		}
	}

	c.mu.Lock()
	c.version = v
	c.framing = framing
	c.mu.Unlock()
	return nil
}

// Build constructs a catalog command bound to the server version.
func (c *Client) Build(key string, args command.Args, opts ...command.Option) (*command.Command, error) {
	opts = append([]command.Option{command.WithVersion(c.Version())}, opts...)
	return c.catalog.Build(key, args, opts...)
}

// Send builds and runs a command. The command is returned whenever it was
// built, so callers can inspect its status after an error.
func (c *Client) Send(ctx context.Context, key string, args command.Args, opts ...command.Option) (*command.Command, error) {
	cmd, err := c.Build(key, args, opts...)
	if err != nil {
		return nil, err
	}
	return cmd, c.Do(ctx, cmd)
}

// Do validates cmd, writes it and waits for its reply or timeout. The
// returned error mirrors the command's final status.
func (c *Client) Do(ctx context.Context, cmd *command.Command) error {
	start := time.Now()
	err := c.do(ctx, cmd)
	observability.RecordCommand(cmd.Name(), cmd.Status().String(), cmd.Response().Code, time.Since(start))
	if err != nil {
		logging.Debugf("session.Client do verb=%s token=%s status=%s err=%v", cmd.Name(), cmd.Token(), cmd.Status(), err)
	}
	return err
}

func (c *Client) do(ctx context.Context, cmd *command.Command) error {
	if err := cmd.ValidateParams(); err != nil {
		return err
	}
	wire, err := cmd.WireText()
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn, closed, framing := c.conn, c.closed, c.framing
	c.mu.Unlock()
	if conn == nil {
		_ = cmd.MarkFailed(ErrNotConnected)
		return ErrNotConnected
	}

	if err := cmd.MarkQueued(); err != nil {
		return err
	}

	noReply := cmd.Definition().Response.Code == 0
	entry := newPendingEntry(cmd)
	if err := c.send(ctx, conn, entry, frameRequest(framing, cmd.Token(), wire), !noReply); err != nil {
		_ = cmd.MarkFailed(err)
		return err
	}
	if err := cmd.MarkSent(); err != nil {
		return err
	}
	if noReply {
		return cmd.ValidateResponse(response.Message{})
	}
	return c.await(ctx, cmd, entry, closed, framing)
}

func (c *Client) send(ctx context.Context, conn net.Conn, entry *pendingEntry, line string, track bool) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if track {
		if err := c.pending.add(entry); err != nil {
			return err
		}
	}
	if err := setWriteDeadline(ctx, conn, c.cfg.WriteTimeout); err != nil {
		c.pending.remove(entry.token)
		return err
	}
	if err := writeLine(conn, line); err != nil {
		c.pending.remove(entry.token)
		return fmt.Errorf("session: write %s: %w", entry.cmd.Name(), err)
	}
	return nil
}

func (c *Client) await(ctx context.Context, cmd *command.Command, entry *pendingEntry, closed <-chan struct{}, framing Framing) error {
	timer := time.NewTimer(c.cfg.CommandTimeout)
	defer timer.Stop()

	select {
	case msg := <-entry.reply:
		return cmd.ValidateResponse(msg)
	case <-timer.C:
		c.pending.expire(entry.token, framing == FramingFIFO)
		_ = cmd.MarkTimeout()
		return fmt.Errorf("%w: %s after %s", ErrCommandTimeout, cmd.Name(), c.cfg.CommandTimeout)
	case <-ctx.Done():
		c.pending.expire(entry.token, framing == FramingFIFO)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			_ = cmd.MarkTimeout()
		} else {
			_ = cmd.MarkFailed(ctx.Err())
		}
		return ctx.Err()
	case <-closed:
		// A reply may have landed just before the connection went away.
		select {
		case msg := <-entry.reply:
			return cmd.ValidateResponse(msg)
		default:
		}
		err := c.closeCause()
		_ = cmd.MarkFailed(err)
		return err
	}
}

func (c *Client) readLoop(conn net.Conn) {
	rr := newReplyReader(conn, c.cfg.MaxLineBytes)
	for {
		if c.cfg.ReadTimeout > 0 {
			_ = setReadDeadline(context.Background(), conn, c.cfg.ReadTimeout)
		}
		msg, err := rr.readReply()
		if errors.Is(err, response.ErrMalformedStatus) {
			logging.Warnf("session.Client skip reply addr=%q err=%v", c.cfg.Address, err)
			continue
		}
		if err != nil {
			c.shutdown(conn, err)
			return
		}
		entry, ok := c.pending.resolve(msg)
		if !ok {
			logging.Warnf("session.Client unmatched reply token=%q code=%d raw=%q", msg.Token, msg.Code, msg.Raw)
			continue
		}
		entry.reply <- msg
	}
}

// shutdown detaches conn once and releases every waiter.
func (c *Client) shutdown(conn net.Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.closeErr = fmt.Errorf("%w: %w", ErrClosed, cause)
	close(c.closed)
	c.mu.Unlock()

	_ = conn.Close()
	if n := len(c.pending.drain()); n > 0 {
		logging.Warnf("session.Client closed with pending=%d cause=%v", n, cause)
	}
}

func (c *Client) closeCause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closeErr == nil {
		return ErrClosed
	}
	return c.closeErr
}

// Close drops the connection. In-flight commands fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	c.shutdown(conn, errors.New("closed by client"))
	return nil
}
