package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/amcpctl/internal/protocol/session"
	"github.com/danmuck/amcpctl/internal/testutil/testlog"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadProfileDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeProfile(t, `
address = "10.0.0.5:5250"
server_version = "2.1.8"
framing = "FIFO"
command_timeout = "1500ms"
max_connect_attempts = 3
output = "json"
`)
	p, err := loadProfile(path, true)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if p.Session.Address != "10.0.0.5:5250" {
		t.Fatalf("unexpected address: %q", p.Session.Address)
	}
	if p.Session.ServerVersion != "2.1.8" || p.Session.Framing != session.FramingFIFO {
		t.Fatalf("unexpected version/framing: %q %q", p.Session.ServerVersion, p.Session.Framing)
	}
	if p.Session.CommandTimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected command timeout: %v", p.Session.CommandTimeout)
	}
	if p.Session.MaxConnectAttempts != 3 || p.Output != "json" {
		t.Fatalf("unexpected attempts/output: %d %q", p.Session.MaxConnectAttempts, p.Output)
	}
	if p.Session.ConnectTimeout != session.DefaultConfig().ConnectTimeout {
		t.Fatalf("undefined key should keep default, got %v", p.Session.ConnectTimeout)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	testlog.Start(t)
	missing := filepath.Join(t.TempDir(), "nope.toml")
	p, err := loadProfile(missing, false)
	if err != nil {
		t.Fatalf("optional profile: %v", err)
	}
	if p.Output != "table" || p.Session.Address != session.DefaultConfig().Address {
		t.Fatalf("expected defaults, got %+v", p)
	}
	if _, err := loadProfile(missing, true); err == nil {
		t.Fatalf("expected error for required missing profile")
	}
}

func TestLoadProfileRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	for name, body := range map[string]string{
		"duration": `command_timeout = "later"`,
		"framing":  `framing = "pipelined"`,
		"tls":      `tls_enabled = true`,
		"syntax":   `address = `,
	} {
		if _, err := loadProfile(writeProfile(t, body), true); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
