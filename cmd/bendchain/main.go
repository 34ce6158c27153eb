package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bendchain/internal/cli"
	"github.com/matzehuels/bendchain/pkg/errors"
)

// Exit codes.
const (
	exitError    = 1
	exitInput    = 2   // The scene, flags or config were rejected
	exitCanceled = 130 // Standard shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// report prints err and returns the exit code for it.
func report(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return exitCanceled
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.GetCode(err).Input() {
		return exitInput
	}
	return exitError
}
