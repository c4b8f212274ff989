package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/scenepipe/internal/app"
	"github.com/vk/scenepipe/internal/cli"
	"github.com/vk/scenepipe/internal/storage/memstore"
)

// main is the entrypoint for the scenepipe application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Generated assets live in memory for the lifetime of the process; a
	// deployment backed by a real object store swaps this out.
	store := memstore.New()
	pipeApp := app.New(outW, opts.Config, store)

	return pipeApp.Run(context.Background(), opts.ScenarioPath)
}
