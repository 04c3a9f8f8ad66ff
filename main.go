package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"signupform/cli"

	"github.com/rohanthewiz/logger"
)

func main() {
	// Initialize logger; subcommands apply the configured level
	logger.SetLogLevel("info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
