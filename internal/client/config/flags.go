package config

import (
	"flag"
	"os"
	"time"

	"github.com/connectinghands/handshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the handshare server (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-i int      poll interval in seconds (default from Config)
//	-f string   sqlite state file (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-i", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL to access server")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "poll interval (in seconds)")
	fs.StringVar(&cfg.StateDBFile, "f", cfg.StateDBFile, "sqlite state file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
