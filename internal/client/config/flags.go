package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/authgate/internal/flagx"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

// parseFlags populates selected Config fields from command-line flags.
// Unknown flags are filtered out with flagx.FilterArgs. Bad values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the authgate server")
	timeout := fs.String("t", cfg.RequestTimeout.String(), "request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	d, err := timex.ParseDuration(*timeout)
	if err != nil {
		panic(err)
	}
	cfg.RequestTimeout = d
}
