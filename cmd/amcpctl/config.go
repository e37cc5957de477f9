package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/amcpctl/internal/protocol/session"
)

const (
	profileFileName = ".amcpctl.toml"
	envProfile      = "AMCPCTL_PROFILE"
)

// profile holds per-user CLI defaults. Flags override it.
type profile struct {
	Session session.Config
	Output  string
}

type fileConfig struct {
	Address            string `toml:"address"`
	ServerVersion      string `toml:"server_version"`
	Framing            string `toml:"framing"`
	ConnectTimeout     string `toml:"connect_timeout"`
	CommandTimeout     string `toml:"command_timeout"`
	MaxConnectAttempts int    `toml:"max_connect_attempts"`
	Output             string `toml:"output"`
	TLSEnabled         bool   `toml:"tls_enabled"`
	TLSCAFile          string `toml:"tls_ca_file"`
	TLSServerName      string `toml:"tls_server_name"`
}

func defaultProfile() profile {
	cfg := session.DefaultConfig()
	cfg.MaxConnectAttempts = 1
	return profile{Session: cfg, Output: "table"}
}

func defaultProfilePath() string {
	if p := strings.TrimSpace(os.Getenv(envProfile)); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return profileFileName
	}
	return filepath.Join(home, profileFileName)
}

// loadProfile overlays path onto the defaults. A missing file is only an
// error when required is set.
func loadProfile(path string, required bool) (profile, error) {
	p := defaultProfile()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !required {
		return p, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return profile{}, fmt.Errorf("load profile: %w", err)
	}

	if meta.IsDefined("address") {
		if v := strings.TrimSpace(raw.Address); v != "" {
			p.Session.Address = v
		}
	}
	if meta.IsDefined("server_version") {
		p.Session.ServerVersion = strings.TrimSpace(raw.ServerVersion)
	}
	if meta.IsDefined("framing") {
		p.Session.Framing = session.Framing(strings.ToLower(strings.TrimSpace(raw.Framing)))
	}
	if meta.IsDefined("connect_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectTimeout))
		if err != nil {
			return profile{}, fmt.Errorf("parse connect_timeout: %w", err)
		}
		p.Session.ConnectTimeout = d
	}
	if meta.IsDefined("command_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.CommandTimeout))
		if err != nil {
			return profile{}, fmt.Errorf("parse command_timeout: %w", err)
		}
		p.Session.CommandTimeout = d
	}
	if meta.IsDefined("max_connect_attempts") {
		p.Session.MaxConnectAttempts = raw.MaxConnectAttempts
	}
	if meta.IsDefined("output") {
		p.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}
	if meta.IsDefined("tls_enabled") {
		p.Session.TLS.Enabled = raw.TLSEnabled
	}
	if meta.IsDefined("tls_ca_file") {
		p.Session.TLS.CAFile = strings.TrimSpace(raw.TLSCAFile)
	}
	if meta.IsDefined("tls_server_name") {
		p.Session.TLS.ServerName = strings.TrimSpace(raw.TLSServerName)
	}

	if err := p.Session.Validate(); err != nil {
		return profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}
