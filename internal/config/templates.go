package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "gateway":
		return gatewayTemplate, nil
	case "tls":
		return tlsTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const gatewayTemplate = `[server]
address = "127.0.0.1:5250"
version = "auto"
framing = "auto"
connect_timeout = "5s"
command_timeout = "5s"
write_timeout = "5s"
max_connect_attempts = 5
security_mode = "development"

[gateway]
name = "amcpctl"
addr = ":8250"
cors_origins = ["http://localhost:3000"]

[log]
level = "info"
`

const tlsTemplate = `[server]
address = "playout.local:5251"
version = "2.2.0"
framing = "request"
connect_timeout = "5s"
command_timeout = "5s"
write_timeout = "5s"
max_connect_attempts = 0
security_mode = "production"

[server.tls]
enabled = true
mutual = true
ca_file = "/etc/amcpctl/ca.crt"
cert_file = "/etc/amcpctl/client.crt"
key_file = "/etc/amcpctl/client.key"

[gateway]
name = "amcpctl"
addr = ":8250"
cors_origins = []
auth_token = "change-me"

[log]
level = "warn"
`
