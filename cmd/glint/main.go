// Package main is the entry point for the glint syntax viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/glint/internal/config"
	"github.com/dshills/glint/internal/filetype"
	"github.com/dshills/glint/internal/logging"
	"github.com/dshills/glint/internal/spandump"
	"github.com/dshills/glint/internal/viewer"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		dumpSpans   bool
		noHighlight bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&dumpSpans, "spans", false, "Print span classifications to stdout instead of opening the viewer")
	flag.BoolVar(&noHighlight, "no-highlight", false, "Disable syntax highlighting")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Glint - incremental syntax viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: glint [options] <file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  glint script.sh             View a file\n")
		fmt.Fprintf(os.Stderr, "  glint -spans script.sh      Print classified spans\n")
		fmt.Fprintf(os.Stderr, "  glint -c glint.toml file    Use a configuration file\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Glint %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	path := flag.Arg(0)

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if noHighlight {
		cfg.Highlight = false
	}

	logger := logging.New(os.Stderr)

	if dumpSpans {
		id := filetype.Sniff(path)
		if err := spandump.Dump(os.Stdout, path, filetype.Classify(id)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	v, err := viewer.New(path, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := v.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
