// Command flowadmin administers the failed flow nodes of a BPM engine.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/cli"
	"github.com/bpmops/flowadmin/internal/config"
	"github.com/bpmops/flowadmin/pkg/version"
)

// Exit codes.
const (
	exitOK           = 0
	exitError        = 1
	exitConfig       = 2
	exitUnauthorized = 3
	exitInterrupted  = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetVersionTemplate("flowadmin " + version.String() + "\n")
	return exitCode(root.ExecuteContext(ctx))
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, config.ErrInvalidConfig):
		return exitConfig
	case errors.Is(err, bpm.ErrUnauthorized), errors.Is(err, bpm.ErrLoginFailed):
		return exitUnauthorized
	default:
		return exitError
	}
}
