package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/amcpctl/internal/protocol/version"
)

// Framing selects how replies are correlated with requests.
type Framing string

const (
	// FramingAuto picks request framing when the server supports it.
	FramingAuto Framing = "auto"
	// FramingRequest sends "REQ <token>" and matches "RES <token>" replies.
	FramingRequest Framing = "request"
	// FramingFIFO matches replies in the order requests were sent.
	FramingFIFO Framing = "fifo"
)

// VersionAuto asks the server for its version after connecting.
const VersionAuto = "auto"

type SecurityMode string

const (
	SecurityModeDevelopment SecurityMode = "development"
	SecurityModeProduction  SecurityMode = "production"
)

var (
	ErrAddressRequired = errors.New("session: server address required")
	ErrInvalidFraming  = errors.New("session: invalid framing mode")
	ErrInvalidTimeout  = errors.New("session: invalid timeout")
)

// BackoffConfig defines connect retry backoff behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// TLSConfig describes an optional TLS hop, e.g. a terminating proxy in
// front of the playout server.
type TLSConfig struct {
	Enabled            bool
	Mutual             bool
	InsecureSkipVerify bool
	ServerName         string
	CAFile             string
	CertFile           string
	KeyFile            string
}

// Config defines transport defaults for one server connection.
type Config struct {
	Address          string
	ConnectTimeout   time.Duration
	HandshakeTimeout time.Duration
	CommandTimeout   time.Duration
	// ReadTimeout closes the connection after that long without reply
	// bytes. Zero disables it.
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	MaxConnectAttempts int
	MaxLineBytes       int
	Framing            Framing
	ServerVersion      string
	SecurityMode       SecurityMode
	TLS                TLSConfig
	Backoff            BackoffConfig
}

func DefaultConfig() Config {
	return Config{
		Address:            "127.0.0.1:5250",
		ConnectTimeout:     5 * time.Second,
		HandshakeTimeout:   5 * time.Second,
		CommandTimeout:     5 * time.Second,
		WriteTimeout:       5 * time.Second,
		MaxConnectAttempts: 5,
		MaxLineBytes:       4 << 20,
		Framing:            FramingAuto,
		ServerVersion:      VersionAuto,
		SecurityMode:       SecurityModeDevelopment,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}

// WithDefaults fills zero values from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if strings.TrimSpace(c.Address) == "" {
		c.Address = def.Address
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = def.ConnectTimeout
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = def.HandshakeTimeout
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = def.CommandTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.MaxLineBytes <= 0 {
		c.MaxLineBytes = def.MaxLineBytes
	}
	if strings.TrimSpace(string(c.Framing)) == "" {
		c.Framing = def.Framing
	}
	if strings.TrimSpace(c.ServerVersion) == "" {
		c.ServerVersion = def.ServerVersion
	}
	if c.Backoff == (BackoffConfig{}) {
		c.Backoff = def.Backoff
	}
	return c
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return ErrAddressRequired
	}
	switch Framing(strings.ToLower(string(c.Framing))) {
	case FramingAuto, FramingRequest, FramingFIFO:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFraming, c.Framing)
	}
	if c.CommandTimeout < 0 || c.ConnectTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return ErrInvalidTimeout
	}
	if v := strings.TrimSpace(c.ServerVersion); v != "" && !strings.EqualFold(v, VersionAuto) {
		if _, err := version.Parse(v); err != nil {
			return err
		}
	}
	return c.ValidateClientTransport()
}
