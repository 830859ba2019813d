// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/faciam-dev/urlpreview/internal/framepolicy"
)

// Config holds the server settings. Variables are prefixed with URLPREVIEW_
// except the frame-src directive, which is shared with the admin host.
type Config struct {
	Addr           string        `env:"URLPREVIEW_ADDR" envDefault:":8080"`
	PublicURL      string        `env:"URLPREVIEW_PUBLIC_URL" envDefault:"http://localhost:8055"`
	ExtensionsDir  string        `env:"URLPREVIEW_EXTENSIONS_DIR"`
	WatchDebounce  time.Duration `env:"URLPREVIEW_WATCH_DEBOUNCE" envDefault:"250ms"`
	ResyncInterval time.Duration `env:"URLPREVIEW_RESYNC_INTERVAL" envDefault:"5m"`
	AllowedOrigins []string      `env:"URLPREVIEW_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	EventsConfig   string        `env:"URLPREVIEW_EVENTS_CONFIG"`
	LogLevel       string        `env:"URLPREVIEW_LOG_LEVEL" envDefault:"info"`

	FrameSrc string `env:"CONTENT_SECURITY_POLICY_DIRECTIVES__FRAME_SRC"`
}

// Load parses the environment.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	for i := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(cfg.AllowedOrigins[i])
	}
	return cfg, nil
}

// FramePolicy parses the configured frame-src directive.
func (c Config) FramePolicy() (*framepolicy.Policy, error) {
	var self *url.URL
	if c.PublicURL != "" {
		u, err := url.Parse(c.PublicURL)
		if err != nil {
			return nil, fmt.Errorf("public url: %w", err)
		}
		self = u
	}
	return framepolicy.Parse(c.FrameSrc, self)
}
