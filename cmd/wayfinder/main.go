package main

import (
	"fmt"
	"os"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "--version", "-v", "version":
		fmt.Printf("wayfinder %s (%s, built %s)\n", version, commit, buildDate)
	case "--help", "-h", "help":
		printUsage()
	case "demo":
		if err := runDemo(args[1:]); err != nil {
			fatal(err)
		}
	case "inspect":
		if err := runInspect(args[1:]); err != nil {
			fatal(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`wayfinder - spatial focus navigation

Usage:
  wayfinder demo [flags]      interactive navigation demo
  wayfinder inspect [flags]   print a layout's regions and groups
  wayfinder version           print version information

Run "wayfinder <command> -h" for command flags.
`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "wayfinder: %v\n", err)
	os.Exit(1)
}
