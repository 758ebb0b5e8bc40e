package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/spellcaster/internal/flagx"
)

// parseFlags overlays the global flags. -c is owned by the file layer and is
// filtered out before parsing.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-T"})

	fs := flag.NewFlagSet("spellctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.DurationVar(&cfg.Timeout, "T", cfg.Timeout, "per-call timeout")

	return fs.Parse(args)
}
