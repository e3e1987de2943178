// Package main is the entry point for Shoreline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samdwyer/shoreline/internal/cli"
)

func main() {
	// Load .env file for local development. This makes
	// HONEYCOMB_SHORELINE_API_KEY and SHORELINE_* overrides available.
	// Not fatal: env vars might be set directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shoreline:", err)
		stop()
		os.Exit(1)
	}
}
