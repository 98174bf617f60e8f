// SPDX-License-Identifier: EPL-2.0

// Command audwave extracts amplitude profiles from audio files and renders
// them as PNG waveform images.
//
// Usage:
//
//	audwave [flags] <command> [args]
//
// Commands:
//
//	profile  - print the amplitude profile of a file
//	render   - draw the waveform of a file into a PNG
//	config   - print the effective configuration as YAML
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ik5/audwave/cmd/audwave/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
