package main

import (
	"os"

	"github.com/xyproto/env/v2"

	"moria.us/elfload/load"
)

// config holds the command settings. Defaults come from the environment and
// are overridden by flags.
type config struct {
	LogLevel string
	Quiet    bool
	DryRun   bool
	Header   bool
}

// configFromEnv reads the environment as it is now, not as it was on a
// previous call.
func configFromEnv() config {
	env.Load()
	return config{
		LogLevel: env.Str("ELFLOAD_LOG_LEVEL", "warning"),
		Quiet:    env.Bool("ELFLOAD_QUIET"),
		DryRun:   env.Bool("ELFLOAD_DRY_RUN"),
		Header:   env.Bool("ELFLOAD_HEADER"),
	}
}

func (c config) apply(l *load.Loader) {
	l.DryRun = c.DryRun
	if c.Quiet {
		l.Report = nil
	}
	if c.Header {
		l.Header = os.Stdout
	}
}
