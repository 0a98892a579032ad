// Command elfload loads a statically linked 32-bit i386 ELF executable into
// its own address space and runs it.
//
//	elfload [flags] <executable> [args...]
//
// Flags must come before the executable name; everything after it is passed
// to the loaded program.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"moria.us/elfload/load"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <executable> [args...]\n", os.Args[0])
	flag.PrintDefaults()
}

func mainE() error {
	cfg := configFromEnv()
	flag.Usage = usage
	flag.BoolVar(&cfg.DryRun, "n", cfg.DryRun, "Print the segment table and placements, do not map or run")
	flag.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Do not print the program header table")
	flag.BoolVar(&cfg.Header, "header", cfg.Header, "Print the ELF file header")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warning, error)")
	flag.Parse()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	args := flag.Args()
	if len(args) == 0 {
		return load.NewError(load.MissingArgument, errors.New("no file name is provided"))
	}

	l := load.New()
	cfg.apply(l)
	return l.Load(args[0], args[1:])
}

func main() {
	if err := mainE(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
