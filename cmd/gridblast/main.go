package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/seqops/gridblast/internal/app"
	"github.com/seqops/gridblast/internal/cli"
)

// main is the entrypoint for the gridblast tool.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the application logic for easier testing and error
// handling; main is the only place that calls os.Exit.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	a, err := app.New(outW, cfg)
	if err != nil {
		return err
	}
	return a.Run(context.Background())
}
