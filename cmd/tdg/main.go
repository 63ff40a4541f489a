// Package main is the entry point for the tdg CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/cli"
	"github.com/runoshun/three-daily-goals/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	os.Exit(exitCode(os.Stderr, err))
}

func run(ctx context.Context) error {
	dataDir, err := app.DefaultDataDir()
	if err != nil {
		return err
	}

	container, err := app.New(dataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.ExecuteContext(ctx)
}

// exitCode prints err to w and returns the process exit status.
// A store written by a newer build is reported as an update prompt.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if me, ok := domain.AsMigrationError(err); ok {
		_, _ = fmt.Fprintf(w, "%s\n\n%s\n", me.Title, me.Message)
		if me.Err != nil {
			_, _ = fmt.Fprintf(w, "\nDetails: %v\n", me.Err)
		}
		return 1
	}
	_, _ = fmt.Fprintln(w, "Error:", err)
	return 1
}
