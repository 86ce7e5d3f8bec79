package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/tramo/cmd"
	"github.com/thenoetrevino/tramo/internal/cli"
)

func main() {
	// Set up signal handling so an interrupted command rolls back cleanly
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx)
	cancel()

	os.Exit(exitCode(err))
}

// exitCode reports errors commands did not report themselves. Those come
// from cobra's argument parsing, so they are usage errors.
func exitCode(err error) int {
	var exitErr *cli.ExitErr
	if err == nil || errors.As(err, &exitErr) {
		return cli.ExitCode(err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\nRun 'tramo --help' for usage.\n", err)
	return cli.ExitUsage
}
