package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/amcpctl/internal/protocol/session"
)

// Config is the amcpctl file format: one playout server and the HTTP
// gateway in front of it.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Gateway GatewayConfig `toml:"gateway"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Address            string    `toml:"address"`
	Version            string    `toml:"version"`
	Framing            string    `toml:"framing"`
	ConnectTimeout     string    `toml:"connect_timeout"`
	CommandTimeout     string    `toml:"command_timeout"`
	ReadTimeout        string    `toml:"read_timeout,omitempty"`
	WriteTimeout       string    `toml:"write_timeout"`
	MaxConnectAttempts int       `toml:"max_connect_attempts"`
	SecurityMode       string    `toml:"security_mode"`
	TLS                TLSConfig `toml:"tls"`
}

type TLSConfig struct {
	Enabled            bool   `toml:"enabled"`
	Mutual             bool   `toml:"mutual"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
	ServerName         string `toml:"server_name,omitempty"`
	CAFile             string `toml:"ca_file,omitempty"`
	CertFile           string `toml:"cert_file,omitempty"`
	KeyFile            string `toml:"key_file,omitempty"`
}

type GatewayConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	// AuthToken, when set, is required as a bearer token on /v1/commands.
	AuthToken string `toml:"auth_token,omitempty"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default mirrors session.DefaultConfig with gateway defaults added.
func Default() Config {
	s := session.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Address:            s.Address,
			Version:            s.ServerVersion,
			Framing:            string(s.Framing),
			ConnectTimeout:     s.ConnectTimeout.String(),
			CommandTimeout:     s.CommandTimeout.String(),
			WriteTimeout:       s.WriteTimeout.String(),
			MaxConnectAttempts: s.MaxConnectAttempts,
			SecurityMode:       string(s.SecurityMode),
		},
		Gateway: GatewayConfig{
			Name:        "amcpctl",
			Addr:        ":8250",
			CorsOrigins: []string{"http://localhost:3000"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Gateway.Name) == "" {
		return fmt.Errorf("gateway config missing name")
	}
	if strings.TrimSpace(cfg.Gateway.Addr) == "" {
		return fmt.Errorf("gateway config missing addr")
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	if _, err := cfg.Session(); err != nil {
		return fmt.Errorf("server config invalid: %w", err)
	}
	return nil
}

// Session converts the server table into a validated session config.
func (c Config) Session() (session.Config, error) {
	s := c.Server
	out := session.Config{
		Address:            strings.TrimSpace(s.Address),
		ServerVersion:      strings.TrimSpace(s.Version),
		Framing:            session.Framing(strings.ToLower(strings.TrimSpace(s.Framing))),
		MaxConnectAttempts: s.MaxConnectAttempts,
		SecurityMode:       session.NormalizeSecurityMode(session.SecurityMode(s.SecurityMode)),
		TLS: session.TLSConfig{
			Enabled:            s.TLS.Enabled,
			Mutual:             s.TLS.Mutual,
			InsecureSkipVerify: s.TLS.InsecureSkipVerify,
			ServerName:         s.TLS.ServerName,
			CAFile:             s.TLS.CAFile,
			CertFile:           s.TLS.CertFile,
			KeyFile:            s.TLS.KeyFile,
		},
	}
	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"connect_timeout", s.ConnectTimeout, &out.ConnectTimeout},
		{"command_timeout", s.CommandTimeout, &out.CommandTimeout},
		{"read_timeout", s.ReadTimeout, &out.ReadTimeout},
		{"write_timeout", s.WriteTimeout, &out.WriteTimeout},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return session.Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = v
	}
	out = out.WithDefaults()
	if err := out.Validate(); err != nil {
		return session.Config{}, err
	}
	return out, nil
}

// Render encodes cfg as TOML.
func Render(cfg Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
