package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/spellcaster/internal/flagx"
)

// Config holds runtime settings for spellctl.
type Config struct {
	ServerEndpointAddr string        `env:"SPELLCTL_ADDR"`
	AccessToken        string        `env:"SPELLCTL_TOKEN"`
	Timeout            time.Duration `env:"SPELLCTL_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Timeout = 10 * time.Second
}

// LoadConfig builds a Config from all layers. args are the global flags that
// precede the subcommand.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, flagx.ConfigFileFlag()); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
