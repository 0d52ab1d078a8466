// Package main provides the cauldron CLI: an audited gate between building
// packages from community recipes and installing them with elevated
// privilege.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ochairo/cauldron/internal/domain/entities"
)

// Process exit codes. An operator abort is a deliberate stop, distinct from
// technical failure.
const (
	exitOK              = 0
	exitFailure         = 1
	exitOperatorAborted = 3
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitFailure)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "install":
		os.Exit(runInstall(ctx, os.Args[2:]))
	case "audit":
		os.Exit(runAudit(ctx, os.Args[2:]))
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(exitFailure)
	}
}

func printUsage() {
	fmt.Println(`cauldron - audited source-build package installer

Usage:
  cauldron <command> [options]

Commands:
  install  Resolve, build, audit and install packages from source recipes
  audit    Run the interactive archive audit over local archive files

Use "cauldron <command> --help" for more information about a command.`)
}

// exitCode maps a pipeline error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, entities.ErrOperatorAborted):
		return exitOperatorAborted
	default:
		return exitFailure
	}
}
