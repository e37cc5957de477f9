package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/danmuck/amcpctl/internal/logging"
)

// ParseLevel maps the [log] level to zerolog. Empty means info.
func ParseLevel(raw string) (zerolog.Level, error) {
	if strings.TrimSpace(raw) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, ok := logging.ParseLevel(raw)
	if !ok {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", raw)
	}
	return lvl, nil
}
