package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type cliOptions struct {
	pipeline    string
	configFile  string
	cron        string
	maxParallel int
	next        int
	showVersion bool

	// maxParallelSet distinguishes an explicit --max-parallel 0 from the default.
	maxParallelSet bool
}

// parseFlags returns done=true when the program should exit with code without
// running, as for --help or a flag error.
func parseFlags(args []string, stderr io.Writer) (opts cliOptions, code int, done bool) {
	fs := pflag.NewFlagSet("flowrun", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, `flowrun runs a YAML pipeline of command tasks once.

Usage:
  flowrun --pipeline FILE [options]

Options:
`)
		fs.PrintDefaults()
	}

	fs.StringVarP(&opts.pipeline, "pipeline", "p", "", "pipeline YAML file")
	fs.StringVarP(&opts.configFile, "config", "c", "", "config file (default: search config.yml)")
	fs.StringVar(&opts.cron, "cron", "", "5-field cron schedule, overrides the pipeline's")
	fs.IntVar(&opts.maxParallel, "max-parallel", 0, "max concurrent tasks per level (0 = unlimited)")
	fs.IntVar(&opts.next, "next", 0, "print the next N scheduled activations and exit")
	fs.BoolVarP(&opts.showVersion, "version", "v", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return opts, exitOK, true
		}
		fmt.Fprintf(stderr, "flowrun: %v\n", err)
		return opts, exitUsage, true
	}
	if opts.pipeline == "" && fs.NArg() > 0 {
		opts.pipeline = fs.Arg(0)
	}
	opts.maxParallelSet = fs.Changed("max-parallel")
	return opts, exitOK, false
}
