// ./main.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/consolepilot/cmd"
)

// main is the entry point for the consolepilot CLI.
func main() {
	// A signal-aware context lets an interrupted run close the browser
	// cleanly instead of orphaning the Chrome process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
