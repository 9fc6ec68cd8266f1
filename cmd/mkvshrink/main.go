// Command mkvshrink finds oversized .mkv files under a source tree,
// re-encodes each one with ffmpeg and replaces the original in place.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "mkvshrink: %v\n", err)
		}
		os.Exit(1)
	}
}
