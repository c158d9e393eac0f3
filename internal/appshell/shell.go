// Package appshell runs a command entry point under a signal-aware context.
package appshell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Runner is the shape of app.RunContext.
type Runner func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs fn with os.Args and exits with its code. The first SIGINT or
// SIGTERM cancels the run; a second one exits at once.
func Main(fn Runner) {
	os.Exit(run(fn, os.Args[1:], os.Stdout, os.Stderr))
}

func run(fn Runner, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(argv) == 0 {
		argv = []string{"--help"}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		hard := make(chan os.Signal, 1)
		signal.Notify(hard, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(hard)
		select {
		case <-done:
		case <-hard:
			_, _ = fmt.Fprintln(stderr, "ispcr: interrupted twice, exiting")
			os.Exit(130)
		}
	}()

	code := fn(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	return code
}
