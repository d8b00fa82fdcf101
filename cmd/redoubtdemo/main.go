package main

import (
	"flag"
	"fmt"
	"os"

	pkgversion "github.com/memparanoid/redoubt-go/pkg/version"
)

// Build-time variables (set via -ldflags)
var (
	version   = ""        // Set via -ldflags "-X main.version=x.y.z"
	buildTime = "unknown" // Set via -ldflags "-X main.buildTime=..."
	gitCommit = "unknown" // Set via -ldflags "-X main.gitCommit=..."
)

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.String()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "demo":
		demoCommand()
	case "example":
		exampleCommand()
	case "version":
		fmt.Printf("redoubtdemo version %s\n", getVersion())
		if buildTime != "unknown" {
			fmt.Printf("Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", gitCommit)
		}
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`redoubtdemo - Sensitive-Data Vault Demo Tool

USAGE:
    redoubtdemo <command> [options]

COMMANDS:
    demo      Run an interactive CipherBox walkthrough
    example   Show example usage with explanations
    version   Print version information
    help      Show this help message

Run 'redoubtdemo <command> --help' for more information on a command.

EXAMPLES:
    # Run the CipherBox walkthrough
    redoubtdemo demo --backend auto

    # Force a specific AEAD backend
    redoubtdemo demo --backend xchacha20poly1305

    # Show interactive examples
    redoubtdemo example

PROJECT:
    redoubt-go - In-process sensitive-data vault
    https://github.com/memparanoid/redoubt-go

    Backends: AEGIS-128L (AES-NI/ARM crypto extensions), XChaCha20-Poly1305`)
}

func demoCommand() {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	backend := fs.String("backend", "auto", "AEAD backend: auto, aegis128l, or xchacha20poly1305")
	verbose := fs.Bool("verbose", false, "Verbose output")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error, silent")
	logFormat := fs.String("log-format", "text", "Log format: text or json")

	fs.Usage = func() {
		fmt.Println(`USAGE: redoubtdemo demo [options]

Construct a CipherBox, populate it, and walk through the open/open_mut/
leak_field/open_field_mut access patterns while narrating what happens to the
stored ciphertext at each step.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Run with the autodetected backend
    redoubtdemo demo

    # Force XChaCha20-Poly1305 and show every step
    redoubtdemo demo --backend xchacha20poly1305 --verbose`)
	}

	_ = fs.Parse(os.Args[2:])

	runDemo(*backend, *verbose, *logLevel, *logFormat)
}

func exampleCommand() {
	if len(os.Args) > 2 && (os.Args[2] == "--help" || os.Args[2] == "-h") {
		fmt.Println(`USAGE: redoubtdemo example

Display interactive examples with code snippets showing how to use the
vault library.

This command shows:
  - Declaring a FieldSet record type
  - Whole-struct access via Open/OpenMut
  - Single-field access via OpenField/LeakField
  - Sharing a box across goroutines with Global`)
		return
	}

	showExamples()
}
