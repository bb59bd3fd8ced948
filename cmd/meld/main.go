// Package main provides the meld binary entry point. Meld harvests
// software metadata from configured sources, merges it into a single
// provenance-tracked document, and publishes the curated result.
package main

import (
	"fmt"
	"os"
	"runtime"

	// Register built-in plugins via init()
	_ "github.com/softmeta/meld/plugin"

	"github.com/softmeta/meld/commands"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := commands.NewRootCmd(Version, BuildTime).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
