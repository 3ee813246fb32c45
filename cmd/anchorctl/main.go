// Package main is the entry point for the anchorctl tool.
package main

import (
	"log/slog"
	"os"

	"github.com/Bidon15/anchorkit/internal/cli"
)

func main() {
	// Setup structured logger. Payload output goes to stdout, logs to
	// stderr so the two can be piped apart.
	if os.Getenv("DEBUG") == "true" {
		cli.LogLevel().Set(slog.LevelDebug)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cli.LogLevel(),
	}))
	slog.SetDefault(logger)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
