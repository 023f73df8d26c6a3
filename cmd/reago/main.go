// Command reago runs scripted ReAct episodes from the command line.
//
//	reago run                      # built-in nebula navigation scenario
//	reago run scenarios/calculator.yaml --json
//	reago batch nebula scenarios/calculator.yaml --concurrency 2
//	reago tools
//
// Flags can also be set through REAGO_* environment variables (dashes
// become underscores), a .env file, or a reago.yaml config file.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
