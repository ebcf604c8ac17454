// Package main provides the entry point for the docflow CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/docflow-ai/docflow-go/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		// Print error (SilenceErrors suppresses Cobra output)
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		// Check for ExitError to get specific exit code
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
